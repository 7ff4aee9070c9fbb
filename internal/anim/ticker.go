// Package anim implements the chat animations: the typing indicator and
// the character-by-character reveal of a reply.
package anim

import "time"

// Ticker is a cancellable periodic tick source
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d
type TickerFunc func(d time.Duration) Ticker

// Target is a display element whose text an animation rewrites
type Target interface {
	SetText(text string)
}

// Placeholder is a Target that can be taken off the display
type Placeholder interface {
	Target
	Remove()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTicker returns a Ticker backed by time.Ticker.
// Non-positive durations are clamped to 1ns.
func NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		d = time.Nanosecond
	}
	return timeTicker{t: time.NewTicker(d)}
}

func orDefault(fn TickerFunc) TickerFunc {
	if fn == nil {
		return NewTicker
	}
	return fn
}
