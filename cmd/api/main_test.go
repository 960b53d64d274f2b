package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baharkarakas/film-catalog/internal/events"
	"github.com/baharkarakas/film-catalog/internal/worker"
)

type closingPublisher struct {
	mu        sync.Mutex
	closed    bool
	published int
	failed    int
}

func (p *closingPublisher) Publish(context.Context, events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.failed++
		return errors.New("connection closed")
	}
	p.published++
	return nil
}

func (p *closingPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func TestResourcesClose_PublishesQueuedEventsBeforeClosing(t *testing.T) {
	pub := &closingPublisher{}
	wp := worker.NewPool(1)
	d := events.NewDispatcher(pub, wp, slog.New(slog.NewTextHandler(io.Discard, nil)))

	block := make(chan struct{})
	wp.Submit(func() { <-block })
	for i := 0; i < 20; i++ {
		d.Dispatch(events.Event{Type: events.ReviewUpserted, ReviewID: "r"})
	}
	close(block)

	resources{workers: wp, pub: pub}.Close()

	assert.Equal(t, 20, pub.published)
	assert.Zero(t, pub.failed)
	assert.True(t, pub.closed)
}
