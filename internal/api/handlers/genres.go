package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/film-catalog/internal/api/httpx"
	"github.com/baharkarakas/film-catalog/internal/services"
)

type GenreHandler struct {
	Genres *services.GenreService
}

func NewGenreHandler(gs *services.GenreService) *GenreHandler {
	return &GenreHandler{Genres: gs}
}

type genreReq struct {
	Name string `json:"genrename" validate:"required,max=100"`
}

func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	genres, err := h.Genres.List(r.Context(), skip, limit)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, genres)
}

func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req genreReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	g, err := h.Genres.Create(r.Context(), req.Name)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, g)
}

func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req genreReq
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	g, err := h.Genres.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, g)
}

func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Genres.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
