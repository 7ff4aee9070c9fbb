package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/faqchat/internal/anim"
	"github.com/diogo/faqchat/internal/logging"
	"github.com/diogo/faqchat/internal/models"
)

// ErrBusy is returned by Submit while another exchange is in flight
var ErrBusy = errors.New("chat: an exchange is already in progress")

// Exchanger sends one message to the backend
type Exchanger interface {
	Exchange(ctx context.Context, message string) (*models.Reply, error)
}

// Controller runs send/receive/render cycles against a Surface.
// At most one cycle runs at a time.
type Controller struct {
	surface        Surface
	backend        Exchanger
	logger         *zap.Logger
	revealDelay    time.Duration
	typingInterval time.Duration
	newTicker      anim.TickerFunc

	mu   sync.Mutex
	busy bool
}

// Option configures a Controller
type Option func(*Controller)

// WithRevealDelay sets the per-character delay of the reply reveal
func WithRevealDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.revealDelay = d
	}
}

// WithTypingInterval sets the typing indicator period
func WithTypingInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.typingInterval = d
	}
}

// WithTicker replaces the tick source of both animations
func WithTicker(fn anim.TickerFunc) Option {
	return func(c *Controller) {
		c.newTicker = fn
	}
}

// WithLogger sets the controller logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a Controller. surface.Log and backend are required;
// a missing Input or Send is replaced by a no-op.
func NewController(surface Surface, backend Exchanger, opts ...Option) (*Controller, error) {
	if surface.Log == nil {
		return nil, errors.New("chat: surface has no log")
	}
	if backend == nil {
		return nil, errors.New("chat: no backend")
	}
	if surface.Input == nil {
		surface.Input = nopInput{}
	}
	if surface.Send == nil {
		surface.Send = nopSend{}
	}

	c := &Controller{
		surface:        surface,
		backend:        backend,
		revealDelay:    anim.DefaultRevealDelay,
		typingInterval: anim.DefaultTypingInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)

	return c, nil
}

// Busy reports whether an exchange is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// SubmitInput submits the current content of the input box
func (c *Controller) SubmitInput(ctx context.Context) error {
	return c.Submit(ctx, c.surface.Input.Value())
}

// Submit runs one cycle for text. Blank text is ignored. While another
// cycle is running it returns ErrBusy without touching the surface.
//
// A failed exchange is rendered into the log as an error entry and also
// returned. Submit blocks until the reply is fully revealed.
func (c *Controller) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if !c.acquire() {
		c.logger.Debug("submit rejected while busy")
		return ErrBusy
	}
	c.surface.Send.SetEnabled(false)
	defer func() {
		c.release()
		c.surface.Send.SetEnabled(true)
	}()

	c.surface.Log.Append(models.RoleUser, text)
	c.surface.Input.Clear()

	typing := anim.StartTyping(appendPlaceholder(c.surface.Log, models.RoleBot), c.typingInterval, c.newTicker)
	defer typing.Stop()

	start := time.Now()
	reply, err := c.backend.Exchange(ctx, text)
	typing.Stop()

	if err != nil {
		c.logger.Warn("exchange failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		c.surface.Log.Append(models.RoleBot, models.ErrorMarker+err.Error())
		return err
	}

	c.logger.Debug("reply received",
		zap.String("source", reply.Source),
		zap.Int("chars", len([]rune(reply.Text))),
		zap.Duration("elapsed", time.Since(start)),
	)

	entry := c.surface.Log.Append(models.RoleBot, "")
	if err := anim.Reveal(ctx, entry, reply.Text, c.revealDelay, c.newTicker); err != nil {
		return err
	}
	entry.SetAnnotation(reply.Annotation())
	return nil
}
