package anim

import (
	"strings"
	"sync"
	"time"
)

// DefaultTypingInterval is the tick period of the typing indicator
const DefaultTypingInterval = 400 * time.Millisecond

// TypingFrames is the number of distinct indicator frames ("", ".", "..", "...")
const TypingFrames = 4

// TypingFrame returns the indicator text for frame n
func TypingFrame(n int) string {
	return strings.Repeat(".", n%TypingFrames)
}

// Typing is a running typing indicator. It owns one ticker and one
// goroutine, both released by Stop.
type Typing struct {
	entry  Placeholder
	ticker Ticker
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	frame  int
}

// StartTyping draws the first frame on entry and starts cycling the dots
func StartTyping(entry Placeholder, interval time.Duration, newTicker TickerFunc) *Typing {
	if interval <= 0 {
		interval = DefaultTypingInterval
	}

	t := &Typing{
		entry:  entry,
		ticker: orDefault(newTicker)(interval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	entry.SetText(TypingFrame(0))

	go t.run()
	return t
}

func (t *Typing) run() {
	defer close(t.done)

	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C():
			// stop wins over a tick that raced with it
			select {
			case <-t.stop:
				return
			default:
			}
			t.frame = (t.frame + 1) % TypingFrames
			t.entry.SetText(TypingFrame(t.frame))
		}
	}
}

// Stop cancels the tick, waits for the goroutine to exit and removes the
// placeholder. It is safe to call more than once. No SetText on the
// placeholder happens after Stop returns.
func (t *Typing) Stop() {
	t.once.Do(func() {
		close(t.stop)
		<-t.done
		t.ticker.Stop()
		t.entry.Remove()
	})
}
