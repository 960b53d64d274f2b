package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/film-catalog/internal/api/handlers"
	"github.com/baharkarakas/film-catalog/internal/config"
	"github.com/baharkarakas/film-catalog/internal/metrics"
	"github.com/baharkarakas/film-catalog/internal/middleware"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/services"
)

type RouterDeps struct {
	Cfg       config.Config
	Gate      *services.AccessGate
	UserSvc   *services.UserService
	FilmSvc   *services.FilmService
	GenreSvc  *services.GenreService
	ReviewSvc *services.ReviewService
	// Ready reports whether backing stores are reachable; nil means always ready.
	Ready func(r *http.Request) error
}

func NewRouter(d RouterDeps) http.Handler {
	authH := handlers.NewAuthHandler(d.Gate)
	userH := handlers.NewUserHandler(d.UserSvc)
	filmH := handlers.NewFilmHandler(d.FilmSvc)
	genreH := handlers.NewGenreHandler(d.GenreSvc)
	reviewH := handlers.NewReviewHandler(d.ReviewSvc)

	authed := middleware.Authenticate(d.Gate)
	admin := middleware.RequireRole(models.RoleFilmAdmin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"X-Total-Count", middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/token", authH.Login)

		// ---------- users ----------
		r.Post("/users", userH.Register)
		r.Get("/users", userH.List)
		r.With(authed).Get("/users/me", userH.Me)

		// ---------- films ----------
		r.Get("/films", filmH.List)
		r.Get("/films/search", filmH.Search)
		r.Get("/films/{id}", filmH.Get)
		r.Get("/films/{id}/reviews", reviewH.ListForFilm)
		r.With(authed).Post("/films/{id}/reviews", reviewH.Upsert)
		r.Group(func(r chi.Router) {
			r.Use(authed, admin)
			r.Post("/films", filmH.Create)
			r.Post("/films/{id}/update", filmH.Update)
			r.Delete("/films/{id}", filmH.Delete)
		})

		// ---------- genres ----------
		r.Get("/genres", genreH.List)
		r.Group(func(r chi.Router) {
			r.Use(authed, admin)
			r.Post("/genres", genreH.Create)
			r.Post("/genres/{id}/update", genreH.Update)
			r.Delete("/genres/{id}", genreH.Delete)
		})

		// ---------- reviews ----------
		r.Get("/reviews", reviewH.List)
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/reviews/{id}/update", reviewH.Update)
			r.Delete("/reviews/{id}", reviewH.Delete)
		})
	})

	return r
}
