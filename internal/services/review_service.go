package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/events"
	"github.com/baharkarakas/film-catalog/internal/metrics"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

// EventSink receives review events after their transaction commits.
type EventSink interface {
	Dispatch(e events.Event)
}

type noopSink struct{}

func (noopSink) Dispatch(events.Event) {}

// ReviewService owns the review lifecycle: one review per (film, user), grades clamped
// into range, and owner-or-filmadmin rights for changes.
type ReviewService struct {
	store  repository.Store
	events EventSink
	log    *slog.Logger
}

func NewReviewService(store repository.Store, sink EventSink, log *slog.Logger) *ReviewService {
	if sink == nil {
		sink = noopSink{}
	}
	return &ReviewService{store: store, events: sink, log: log}
}

// CanModify reports whether actor may update or delete r.
func CanModify(actor models.Identity, r models.Review) bool {
	return actor.UserID == r.UserID || actor.IsFilmAdmin()
}

// Upsert creates userID's review of filmID or rewrites it in place.
func (s *ReviewService) Upsert(ctx context.Context, filmID, userID string, in models.ReviewInput) (models.ReviewView, error) {
	in = in.Normalized()
	var (
		view models.ReviewView
		rv   models.Review
	)
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		rv, err = tx.Reviews().Upsert(ctx, models.Review{
			FilmID:    filmID,
			UserID:    userID,
			Text:      in.Text,
			Grade:     in.Grade,
			Recommend: in.Recommend,
		})
		if err != nil {
			return err
		}
		if view, err = composite(ctx, tx, rv); err != nil {
			return err
		}
		return audit(ctx, tx, "upsert", userID, rv)
	})
	if err != nil {
		return models.ReviewView{}, s.failed("upsert", err)
	}
	s.committed(events.ReviewUpserted, userID, rv)
	return view, nil
}

// Update rewrites an existing review by id.
func (s *ReviewService) Update(ctx context.Context, actor models.Identity, reviewID string, in models.ReviewInput) (models.ReviewView, error) {
	in = in.Normalized()
	var (
		view models.ReviewView
		rv   models.Review
	)
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		cur, err := tx.Reviews().GetForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if !CanModify(actor, cur) {
			return apperr.Forbidden("not allowed to modify this review")
		}
		cur.Text, cur.Grade, cur.Recommend = in.Text, in.Grade, in.Recommend
		if rv, err = tx.Reviews().Update(ctx, cur); err != nil {
			return err
		}
		if view, err = composite(ctx, tx, rv); err != nil {
			return err
		}
		return audit(ctx, tx, "update", actor.UserID, rv)
	})
	if err != nil {
		return models.ReviewView{}, s.failed("update", err)
	}
	s.committed(events.ReviewUpdated, actor.UserID, rv)
	return view, nil
}

// Delete removes a review. The returned view carries the deleted review's fields and
// the film as it reads after the deletion.
func (s *ReviewService) Delete(ctx context.Context, actor models.Identity, reviewID string) (models.ReviewView, error) {
	var (
		view models.ReviewView
		rv   models.Review
	)
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		cur, err := tx.Reviews().GetForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if !CanModify(actor, cur) {
			return apperr.Forbidden("not allowed to modify this review")
		}
		owner, err := tx.Users().GetByID(ctx, cur.UserID)
		if err != nil {
			return err
		}
		if rv, err = tx.Reviews().Delete(ctx, reviewID); err != nil {
			return err
		}
		film, err := filmView(ctx, tx, rv.FilmID)
		if err != nil {
			return err
		}
		view = models.NewReviewView(rv, film, owner.View())
		return audit(ctx, tx, "delete", actor.UserID, rv)
	})
	if err != nil {
		return models.ReviewView{}, s.failed("delete", err)
	}
	s.committed(events.ReviewDeleted, actor.UserID, rv)
	return view, nil
}

// ListForFilm returns a film's reviews in creation order. No identity is required.
func (s *ReviewService) ListForFilm(ctx context.Context, filmID string, skip, limit int) ([]models.ReviewView, error) {
	var out []models.ReviewView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		film, err := filmView(ctx, tx, filmID)
		if err != nil {
			return err
		}
		rows, err := tx.Reviews().ListByFilm(ctx, filmID, repository.NewPage(skip, limit))
		if err != nil {
			return err
		}
		out, err = newViewBuilder(tx).withFilm(film).build(ctx, rows)
		return err
	})
	return out, err
}

func (s *ReviewService) List(ctx context.Context, skip, limit int) ([]models.ReviewView, error) {
	var out []models.ReviewView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		rows, err := tx.Reviews().List(ctx, repository.NewPage(skip, limit))
		if err != nil {
			return err
		}
		out, err = newViewBuilder(tx).build(ctx, rows)
		return err
	})
	return out, err
}

func (s *ReviewService) failed(op string, err error) error {
	metrics.ReviewWritesFailed.WithLabelValues(string(apperr.KindOf(err))).Inc()
	if apperr.KindOf(err) == apperr.KindUnavailable || apperr.KindOf(err) == apperr.KindInternal {
		s.log.Error("review write failed", "op", op, "err", err)
	}
	return err
}

func (s *ReviewService) committed(t events.Type, actorID string, rv models.Review) {
	metrics.ReviewsWritten.WithLabelValues(opOf(t)).Inc()
	s.events.Dispatch(events.Event{
		Type:     t,
		ReviewID: rv.ID,
		FilmID:   rv.FilmID,
		UserID:   rv.UserID,
		ActorID:  actorID,
		Grade:    rv.Grade,
	})
}

func opOf(t events.Type) string {
	switch t {
	case events.ReviewUpdated:
		return "update"
	case events.ReviewDeleted:
		return "delete"
	}
	return "upsert"
}

// composite builds the {review, film, user} view from inside tx.
func composite(ctx context.Context, tx repository.Tx, rv models.Review) (models.ReviewView, error) {
	film, err := filmView(ctx, tx, rv.FilmID)
	if err != nil {
		return models.ReviewView{}, err
	}
	u, err := tx.Users().GetByID(ctx, rv.UserID)
	if err != nil {
		return models.ReviewView{}, err
	}
	return models.NewReviewView(rv, film, u.View()), nil
}

func audit(ctx context.Context, tx repository.Tx, action, actorID string, rv models.Review) error {
	id := rv.ID
	return tx.AuditLogs().Create(ctx, models.AuditLog{
		EntityType: "review",
		EntityID:   &id,
		Action:     action,
		Details: map[string]any{
			"actor_id": actorID,
			"film_id":  rv.FilmID,
			"grade":    rv.Grade,
		},
	})
}

// viewBuilder memoizes film and user projections while expanding a page of reviews.
type viewBuilder struct {
	tx    repository.Tx
	films map[string]models.FilmView
	users map[string]models.UserView
}

func newViewBuilder(tx repository.Tx) *viewBuilder {
	return &viewBuilder{tx: tx, films: map[string]models.FilmView{}, users: map[string]models.UserView{}}
}

func (b *viewBuilder) withFilm(v models.FilmView) *viewBuilder {
	b.films[v.ID] = v
	return b
}

func (b *viewBuilder) build(ctx context.Context, rows []models.Review) ([]models.ReviewView, error) {
	out := make([]models.ReviewView, 0, len(rows))
	for _, rv := range rows {
		film, ok := b.films[rv.FilmID]
		if !ok {
			var err error
			if film, err = filmView(ctx, b.tx, rv.FilmID); err != nil {
				return nil, err
			}
			b.films[rv.FilmID] = film
		}
		user, ok := b.users[rv.UserID]
		if !ok {
			u, err := b.tx.Users().GetByID(ctx, rv.UserID)
			if err != nil {
				return nil, err
			}
			user = u.View()
			b.users[rv.UserID] = user
		}
		out = append(out, models.NewReviewView(rv, film, user))
	}
	return out, nil
}
