// Package animtest provides a manually driven anim.Ticker for tests.
package animtest

import (
	"sync"
	"time"

	"github.com/diogo/faqchat/internal/anim"
)

// Ticker fires only when Tick is called
type Ticker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
	period  time.Duration
}

// NewTicker returns an unstarted manual ticker
func NewTicker() *Ticker {
	return &Ticker{ch: make(chan time.Time)}
}

// C implements anim.Ticker
func (t *Ticker) C() <-chan time.Time { return t.ch }

// Stop implements anim.Ticker
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called
func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Period returns the duration the ticker was created with
func (t *Ticker) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Tick delivers one tick and blocks until the consumer receives it
func (t *Ticker) Tick() {
	t.ch <- time.Now()
}

// TryTick delivers a tick only if a consumer is waiting right now.
// It reports whether the tick was received.
func (t *Ticker) TryTick(wait time.Duration) bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(wait):
		return false
	}
}

// Func returns an anim.TickerFunc that always hands out t
func (t *Ticker) Func() anim.TickerFunc {
	return func(d time.Duration) anim.Ticker {
		t.mu.Lock()
		t.period = d
		t.mu.Unlock()
		return t
	}
}
