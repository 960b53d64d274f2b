package handlers

import (
	"net/http"
	"time"

	"github.com/baharkarakas/film-catalog/internal/api/httpx"
	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/middleware"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/services"
)

const dateLayout = "2006-01-02"

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(us *services.UserService) *UserHandler {
	return &UserHandler{Users: us}
}

type registerReq struct {
	Email       string  `json:"email" validate:"required,email"`
	Name        string  `json:"name" validate:"required,max=200"`
	Password    string  `json:"password" validate:"required,min=1,max=72"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,max=50"`
	DateOfBirth string  `json:"dateofbirth" validate:"required,datetime=2006-01-02"`
}

type userResp struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Gender      *string     `json:"gender"`
	DateOfBirth *string     `json:"dateofbirth"`
	Role        models.Role `json:"role"`
}

func toUserResp(u models.User) userResp {
	out := userResp{ID: u.ID, Email: u.Email, Name: u.Name, Gender: u.Gender, Role: u.Role}
	if u.DateOfBirth != nil {
		d := u.DateOfBirth.Format(dateLayout)
		out.DateOfBirth = &d
	}
	return out
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		httpx.WriteAppError(w, r, apperr.Validation("dateofbirth must be YYYY-MM-DD"))
		return
	}
	u, err := h.Users.Register(r.Context(), services.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Gender:      req.Gender,
		DateOfBirth: &dob,
	})
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResp(u))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	users, err := h.Users.List(r.Context(), skip, limit)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteAppError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}
	u, err := h.Users.Me(r.Context(), id)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResp(u))
}
