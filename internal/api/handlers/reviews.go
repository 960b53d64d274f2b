package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/film-catalog/internal/api/httpx"
	"github.com/baharkarakas/film-catalog/internal/api/validate"
	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/middleware"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

func NewReviewHandler(rs *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: rs}
}

// Grades outside 1..10 are accepted here and clamped, however large the number.
type reviewReq struct {
	Text      string       `json:"reviewtext" validate:"max=10000"`
	Grade     *json.Number `json:"tengrade" validate:"required"`
	Recommend bool         `json:"binarygrade"`
}

func (req reviewReq) input() (models.ReviewInput, error) {
	g, err := gradeOf(*req.Grade)
	if err != nil {
		return models.ReviewInput{}, err
	}
	return models.ReviewInput{Text: req.Text, Grade: g, Recommend: req.Recommend}, nil
}

// gradeOf parses an integer grade, saturating values beyond int64 to the nearest bound.
func gradeOf(n json.Number) (int, error) {
	g, err := strconv.ParseInt(n.String(), 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(n.String(), "-") {
			return models.MinGrade, nil
		}
		return models.MaxGrade, nil
	case err != nil:
		return 0, validate.Errs{{Field: "tengrade", Msg: "must be an integer"}}
	}
	if g < models.MinGrade {
		g = models.MinGrade
	}
	if g > models.MaxGrade {
		g = models.MaxGrade
	}
	return int(g), nil
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	out, err := h.Reviews.List(r.Context(), skip, limit)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) ListForFilm(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	out, err := h.Reviews.ListForFilm(r.Context(), chi.URLParam(r, "id"), skip, limit)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteAppError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}
	var req reviewReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	v, err := h.Reviews.Upsert(r.Context(), chi.URLParam(r, "id"), id.UserID, in)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteAppError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}
	var req reviewReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	v, err := h.Reviews.Update(r.Context(), id, chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteAppError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}
	v, err := h.Reviews.Delete(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}
