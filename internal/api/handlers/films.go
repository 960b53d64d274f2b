package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/film-catalog/internal/api/httpx"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/services"
)

type FilmHandler struct {
	Films *services.FilmService
}

func NewFilmHandler(fs *services.FilmService) *FilmHandler {
	return &FilmHandler{Films: fs}
}

type createFilmReq struct {
	Name        string   `json:"filmname" validate:"required,max=300"`
	Description string   `json:"description" validate:"max=5000"`
	Year        int      `json:"year" validate:"gte=1888,lte=3000"`
	Genres      []string `json:"genres" validate:"dive,max=100"`
}

type updateFilmReq struct {
	Name        *string   `json:"filmname" validate:"omitempty,max=300"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Year        *int      `json:"year" validate:"omitempty,gte=1888,lte=3000"`
	Genres      *[]string `json:"genres" validate:"omitempty,dive,max=100"`
}

func (h *FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	films, total, err := h.Films.List(r.Context(), skip, limit)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	httpx.WriteJSON(w, http.StatusOK, films)
}

// Search filters by name substring (case-insensitive), exact genre and exact year.
func (h *FilmHandler) Search(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	q := r.URL.Query()
	year, err := intParam(q.Get("year"), "year")
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	films, err := h.Films.Search(r.Context(), models.FilmSearch{
		Name:  q.Get("name"),
		Genre: q.Get("genre"),
		Year:  year,
	}, skip, limit)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, films)
}

func (h *FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Films.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFilmReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	v, err := h.Films.Create(r.Context(), services.FilmInput{
		Name:        req.Name,
		Description: req.Description,
		Year:        req.Year,
		Genres:      req.Genres,
	})
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, v)
}

func (h *FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateFilmReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	v, err := h.Films.Update(r.Context(), chi.URLParam(r, "id"), services.FilmPatch{
		Name:        req.Name,
		Description: req.Description,
		Year:        req.Year,
		Genres:      req.Genres,
	})
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *FilmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Films.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
