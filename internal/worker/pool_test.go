package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsAllAndDrainsOnStop(t *testing.T) {
	p := NewPool(4)
	var n atomic.Int64
	for i := 0; i < 500; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.EqualValues(t, 500, n.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1)
	p.Stop()
	assert.False(t, p.Submit(func() {}))
	assert.NotPanics(t, p.Stop)
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	p := NewPool(1)
	var ran atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { ran.Store(true) })
	p.Stop()
	assert.True(t, ran.Load())
}

func TestPool_SubmitDropsWhenQueueFull(t *testing.T) {
	p := NewPool(1)
	started, release := make(chan struct{}), make(chan struct{})
	assert.True(t, p.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	for i := 0; i < queueSize; i++ {
		assert.True(t, p.Submit(func() {}))
	}
	assert.False(t, p.Submit(func() {}))

	close(release)
	p.Stop()
}
