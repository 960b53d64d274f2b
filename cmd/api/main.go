package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/film-catalog/internal/api"
	"github.com/baharkarakas/film-catalog/internal/auth"
	"github.com/baharkarakas/film-catalog/internal/config"
	"github.com/baharkarakas/film-catalog/internal/db"
	"github.com/baharkarakas/film-catalog/internal/events"
	"github.com/baharkarakas/film-catalog/internal/logger"
	"github.com/baharkarakas/film-catalog/internal/metrics"
	"github.com/baharkarakas/film-catalog/internal/repository"
	"github.com/baharkarakas/film-catalog/internal/repository/memory"
	"github.com/baharkarakas/film-catalog/internal/repository/postgres"
	"github.com/baharkarakas/film-catalog/internal/services"
	"github.com/baharkarakas/film-catalog/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, pool, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	pub, err := events.New(events.Options{URL: cfg.NATSURL}, log)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return fmt.Errorf("nats connect: %w", err)
	}

	metrics.Init()

	res := resources{workers: worker.NewPool(cfg.Workers), pub: pub, pool: pool}
	defer res.Close()

	gate := services.NewAccessGate(store.Users(), auth.NewTokenManager(cfg.Auth()), log)
	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		Gate:      gate,
		UserSvc:   services.NewUserService(store),
		FilmSvc:   services.NewFilmService(store),
		GenreSvc:  services.NewGenreService(store),
		ReviewSvc: services.NewReviewService(store, events.NewDispatcher(pub, res.workers, log), log),
		Ready: func(r *http.Request) error {
			if pool == nil {
				return nil
			}
			return pool.Ping(r.Context())
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// resources are released in dependency order: queued events are published before the
// NATS connection drains, and the database pool goes last.
type resources struct {
	workers *worker.Pool
	pub     events.Publisher
	pool    *pgxpool.Pool
}

func (r resources) Close() {
	r.workers.Stop()
	r.pub.Close()
	if r.pool != nil {
		r.pool.Close()
	}
}

// openStore returns the configured store; pool is nil for the in-memory one.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repository.Store, *pgxpool.Pool, error) {
	if cfg.Store == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil, nil
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return postgres.NewStore(pool), pool, nil
}
