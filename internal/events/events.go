// Package events publishes review lifecycle notifications to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/baharkarakas/film-catalog/internal/metrics"
)

type Type string

const (
	ReviewUpserted Type = "review.upserted"
	ReviewUpdated  Type = "review.updated"
	ReviewDeleted  Type = "review.deleted"
)

const subjectPrefix = "catalog.reviews."

type Event struct {
	ID         string    `json:"event_id"`
	Type       Type      `json:"type"`
	ReviewID   string    `json:"review_id"`
	FilmID     string    `json:"film_id"`
	UserID     string    `json:"user_id"`
	ActorID    string    `json:"actor_id"`
	Grade      int       `json:"grade"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Subject is the NATS subject the event is published on.
func (e Event) Subject() string { return subjectPrefix + string(e.Type) }

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// NATSPublisher sends events as JSON over a core NATS connection.
type NATSPublisher struct {
	nc  *nats.Conn
	log *slog.Logger
}

type Options struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// New returns a NATS-backed publisher, or a no-op one when opts.URL is empty.
func New(opts Options, log *slog.Logger) (Publisher, error) {
	if opts.URL == "" {
		log.Warn("NATS_URL not set, review events will not be published (stub mode)")
		return Noop{}, nil
	}
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = 10
	}
	if opts.ReconnectWait == 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	nc, err := nats.Connect(opts.URL,
		nats.Name("film-catalog"),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", opts.URL, err)
	}
	log.Info("NATS publisher initialised", "url", nc.ConnectedUrl())
	return &NATSPublisher{nc: nc, log: log}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.nc.Publish(e.Subject(), data)
}

// Close flushes pending messages before closing the connection.
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("nats drain", "err", err)
		p.nc.Close()
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close()                               {}

// Submitter is the slice of worker.Pool the dispatcher needs.
type Submitter interface {
	Submit(func()) bool
}

// Dispatcher publishes events off the request path. Failures are logged and counted only.
type Dispatcher struct {
	pub     Publisher
	workers Submitter
	log     *slog.Logger
	timeout time.Duration
}

func NewDispatcher(pub Publisher, workers Submitter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{pub: pub, workers: workers, log: log, timeout: 5 * time.Second}
}

func (d *Dispatcher) Dispatch(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	ok := d.workers.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.pub.Publish(ctx, e); err != nil {
			metrics.EventsPublished.WithLabelValues("error").Inc()
			d.log.Warn("publish review event", "type", e.Type, "review_id", e.ReviewID, "err", err)
			return
		}
		metrics.EventsPublished.WithLabelValues("ok").Inc()
	})
	if !ok {
		metrics.EventsPublished.WithLabelValues("dropped").Inc()
		d.log.Warn("worker queue full or stopped, review event dropped", "type", e.Type, "review_id", e.ReviewID)
	}
}
