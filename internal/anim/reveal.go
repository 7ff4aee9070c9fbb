package anim

import (
	"context"
	"strings"
	"time"
)

// DefaultRevealDelay is the per-character delay of Reveal
const DefaultRevealDelay = 20 * time.Millisecond

// Reveal clears target and then appends text one rune per tick.
// It returns after the last rune is shown, immediately for empty text,
// or with ctx.Err() if ctx is cancelled first.
func Reveal(ctx context.Context, target Target, text string, delay time.Duration, newTicker TickerFunc) error {
	target.SetText("")

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	ticker := orDefault(newTicker)(delay)
	defer ticker.Stop()

	var shown strings.Builder
	shown.Grow(len(text))
	for _, r := range runes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		}
		shown.WriteRune(r)
		target.SetText(shown.String())
	}
	return nil
}
