package handlers

import (
	"context"
	"mime"
	"net/http"

	"github.com/baharkarakas/film-catalog/internal/api/httpx"
	"github.com/baharkarakas/film-catalog/internal/api/validate"
	"github.com/baharkarakas/film-catalog/internal/services"
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, email, password string) (services.Token, error)
}

type AuthHandler struct {
	Gate TokenIssuer
}

func NewAuthHandler(gate TokenIssuer) *AuthHandler {
	return &AuthHandler{Gate: gate}
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login accepts an OAuth2 password form (username, password) or a JSON body (email, password).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && err != http.ErrNotMultipart {
			httpx.WriteAppError(w, r, validate.Errs{{Field: "form", Msg: "malformed form body"}})
			return
		}
		req.Email, req.Password = r.PostFormValue("username"), r.PostFormValue("password")
		if err := validate.Struct(req); err != nil {
			httpx.WriteAppError(w, r, err)
			return
		}
	default:
		if err := decodeJSON(w, r, &req); err != nil {
			httpx.WriteAppError(w, r, err)
			return
		}
	}

	tok, err := h.Gate.IssueToken(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tok)
}
