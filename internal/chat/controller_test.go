package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/diogo/faqchat/internal/api"
	"github.com/diogo/faqchat/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestController(t *testing.T, s *fakeSurface, backend Exchanger) *Controller {
	t.Helper()
	ctrl, err := NewController(s.surface(), backend,
		WithRevealDelay(time.Millisecond),
		WithTypingInterval(time.Millisecond),
	)
	require.NoError(t, err)
	return ctrl
}

func TestNewController_Validation(t *testing.T) {
	_, err := NewController(Surface{}, &api.MockBackend{})
	assert.Error(t, err)

	_, err = NewController(newFakeSurface().surface(), nil)
	assert.Error(t, err)

	ctrl, err := NewController(Surface{Log: newFakeSurface()}, &api.MockBackend{})
	require.NoError(t, err)
	assert.Equal(t, "", ctrl.surface.Input.Value())
}

func TestSubmit_Success(t *testing.T) {
	s := newFakeSurface()
	backend := &api.MockBackend{ExchangeVal: &models.Reply{Text: "A", Source: models.SourceAPI}}
	ctrl := newTestController(t, s, backend)

	require.NoError(t, ctrl.Submit(context.Background(), "  hello  "))

	assert.Equal(t, []string{"hello"}, backend.SentMessages())
	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Text: "hello"},
		{Role: models.RoleBot, Text: "A"},
	}, s.visible())
	assert.Equal(t, "source: api", s.lastAnnotation())
	assert.True(t, s.isEnabled())
	assert.False(t, ctrl.Busy())
}

func TestSubmit_UserMessageBeforeExchange(t *testing.T) {
	s := newFakeSurface()
	var seen []models.Message
	var enabledDuring, busyDuring bool

	var ctrl *Controller
	backend := &api.MockBackend{
		ExchangeFunc: func(ctx context.Context, message string) (*models.Reply, error) {
			seen = s.visible()
			enabledDuring = s.isEnabled()
			busyDuring = ctrl.Busy()
			return &models.Reply{Text: "ok"}, nil
		},
	}
	ctrl = newTestController(t, s, backend)

	require.NoError(t, ctrl.Submit(context.Background(), "question"))

	require.NotEmpty(t, seen)
	assert.Equal(t, models.Message{Role: models.RoleUser, Text: "question"}, seen[0])
	userCount := 0
	for _, m := range seen {
		if m.Role == models.RoleUser {
			userCount++
		}
	}
	assert.Equal(t, 1, userCount)
	assert.False(t, enabledDuring, "send must be disabled during the exchange")
	assert.True(t, busyDuring)
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		s := newFakeSurface()
		backend := &api.MockBackend{}
		ctrl := newTestController(t, s, backend)

		require.NoError(t, ctrl.Submit(context.Background(), text))
		assert.Empty(t, s.snapshot(), "blank input must not touch the surface")
		assert.Empty(t, backend.SentMessages())
	}
}

func TestSubmit_Failure(t *testing.T) {
	s := newFakeSurface()
	backend := &api.MockBackend{ExchangeErr: errors.New("timeout")}
	ctrl := newTestController(t, s, backend)

	err := ctrl.Submit(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, "timeout", err.Error())

	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Text: "hi"},
		{Role: models.RoleBot, Text: models.ErrorMarker + "timeout"},
	}, s.visible())
	assert.True(t, s.isEnabled(), "send must be re-enabled after a failure")
	assert.False(t, ctrl.Busy())
}

func TestSubmit_EventOrder(t *testing.T) {
	s := newFakeSurface()
	backend := &api.MockBackend{ExchangeVal: &models.Reply{Text: "ab"}}
	ctrl := newTestController(t, s, backend)

	require.NoError(t, ctrl.Submit(context.Background(), "q"))
	events := s.snapshot()

	disable := indexOf(events, "enabled false")
	userAppend := indexOf(events, `append 0 user "q"`)
	clear := indexOf(events, "clear input")
	placeholder := indexOf(events, `append 1 bot ""`)
	removed := indexOf(events, "remove 1")
	reply := indexOf(events, `append 2 bot ""`)
	revealed := indexOf(events, `text 2 "ab"`)
	annotated := indexOf(events, `annotate 2 ""`)
	enable := indexOf(events, "enabled true")

	for name, idx := range map[string]int{
		"disable": disable, "user": userAppend, "clear": clear, "placeholder": placeholder,
		"removed": removed, "reply": reply, "revealed": revealed, "annotated": annotated, "enable": enable,
	} {
		require.GreaterOrEqual(t, idx, 0, "missing event %s in %v", name, events)
	}

	assert.Less(t, disable, userAppend)
	assert.Less(t, userAppend, clear)
	assert.Less(t, clear, placeholder)
	assert.Less(t, placeholder, removed)
	assert.Less(t, removed, reply, "typing must stop before the reply is appended")
	assert.Less(t, reply, revealed)
	assert.Less(t, revealed, annotated, "annotation follows the full reveal")
	assert.Less(t, annotated, enable)
	assert.Equal(t, len(events)-1, enable)

	for _, e := range events[removed+1:] {
		assert.NotContains(t, e, "text 1 ", "placeholder mutated after removal")
	}
}

func TestSubmit_FailureStopsTypingFirst(t *testing.T) {
	s := newFakeSurface()
	backend := &api.MockBackend{ExchangeErr: errors.New("boom")}
	ctrl := newTestController(t, s, backend)

	_ = ctrl.Submit(context.Background(), "q")
	events := s.snapshot()

	removed := indexOf(events, "remove 1")
	errEntry := indexOf(events, `append 2 bot "`+models.ErrorMarker+`boom"`)
	require.GreaterOrEqual(t, removed, 0)
	require.GreaterOrEqual(t, errEntry, 0)
	assert.Less(t, removed, errEntry)
}

func TestSubmit_NoMutationAfterCycle(t *testing.T) {
	s := newFakeSurface()
	backend := &api.MockBackend{
		ExchangeFunc: func(ctx context.Context, message string) (*models.Reply, error) {
			time.Sleep(10 * time.Millisecond) // let the typing indicator tick a few times
			return &models.Reply{Text: "done"}, nil
		},
	}
	ctrl := newTestController(t, s, backend)

	require.NoError(t, ctrl.Submit(context.Background(), "q"))
	n := s.eventCount()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, s.eventCount(), "surface mutated after the cycle completed")
}

func TestSubmit_RejectsWhileBusy(t *testing.T) {
	s := newFakeSurface()
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &api.MockBackend{
		ExchangeFunc: func(ctx context.Context, message string) (*models.Reply, error) {
			close(started)
			<-release
			return &models.Reply{Text: "first"}, nil
		},
	}
	ctrl := newTestController(t, s, backend)

	done := make(chan error, 1)
	go func() { done <- ctrl.Submit(context.Background(), "one") }()
	<-started

	err := ctrl.Submit(context.Background(), "two")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"one"}, backend.SentMessages())
	for _, m := range s.visible() {
		assert.NotEqual(t, "two", m.Text)
	}

	// a new submission is accepted once the first completes
	backend.ExchangeFunc = nil
	backend.ExchangeVal = &models.Reply{Text: "second"}
	require.NoError(t, ctrl.Submit(context.Background(), "two"))
}

func TestSubmit_RevealCancelled(t *testing.T) {
	s := newFakeSurface()
	ctx, cancel := context.WithCancel(context.Background())
	backend := &api.MockBackend{
		ExchangeFunc: func(context.Context, string) (*models.Reply, error) {
			return &models.Reply{Text: "a long reply"}, nil
		},
	}
	ctrl, err := NewController(s.surface(), backend,
		WithRevealDelay(time.Hour),
		WithTypingInterval(time.Millisecond),
	)
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err = ctrl.Submit(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, s.isEnabled())
	assert.False(t, ctrl.Busy())
}

func TestSubmit_ScoreAnnotation(t *testing.T) {
	s := newFakeSurface()
	score := 0.875
	backend := &api.MockBackend{ExchangeVal: &models.Reply{Text: "x", Source: models.SourceCache, Score: &score}}
	ctrl := newTestController(t, s, backend)

	require.NoError(t, ctrl.Submit(context.Background(), "q"))
	assert.Equal(t, "source: cache (score 0.88)", s.lastAnnotation())
}

func TestSubmitInput(t *testing.T) {
	s := newFakeSurface()
	s.input = " from the box "
	backend := &api.MockBackend{}
	ctrl := newTestController(t, s, backend)

	require.NoError(t, ctrl.SubmitInput(context.Background()))
	assert.Equal(t, []string{"from the box"}, backend.SentMessages())
	assert.Equal(t, "", s.Value())
	assert.Equal(t, models.ReplyFallback, s.visible()[1].Text)
}

// placeholderSurface records which entries were appended as placeholders
type placeholderSurface struct {
	*fakeSurface
	placeholders []int
}

func (s *placeholderSurface) AppendPlaceholder(role models.Role) Entry {
	e := s.Append(role, "")
	s.mu.Lock()
	s.placeholders = append(s.placeholders, e.(*fakeEntry).id)
	s.mu.Unlock()
	return e
}

func TestSubmit_TypingUsesPlaceholderLog(t *testing.T) {
	s := &placeholderSurface{fakeSurface: newFakeSurface()}
	backend := &api.MockBackend{ExchangeVal: &models.Reply{Text: "..."}}
	ctrl, err := NewController(Surface{Log: s, Input: s, Send: s}, backend,
		WithRevealDelay(time.Millisecond),
		WithTypingInterval(time.Millisecond),
	)
	require.NoError(t, err)

	require.NoError(t, ctrl.Submit(context.Background(), "q"))

	// entry 0 is the user message, 1 the typing indicator, 2 the reply
	assert.Equal(t, []int{1}, s.placeholders)
	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Text: "q"},
		{Role: models.RoleBot, Text: "..."},
	}, s.visible())
}
