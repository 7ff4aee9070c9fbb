package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diogo/faqchat/internal/api"
	"github.com/diogo/faqchat/internal/chat"
	"github.com/diogo/faqchat/internal/config"
	"github.com/diogo/faqchat/internal/models"
)

type mockTUI struct {
	called  bool
	cfg     config.Config
	backend chat.Exchanger
}

func (m *mockTUI) RunChat(ctx context.Context, cfg config.Config, backend chat.Exchanger, logger *zap.Logger) error {
	m.called = true
	m.cfg = cfg
	m.backend = backend
	return nil
}

type testEnv struct {
	deps    *Dependencies
	backend *api.MockBackend
	tui     *mockTUI
	out     *bytes.Buffer
	err     *bytes.Buffer
}

func newTestEnv(t *testing.T, stdin string) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.RevealDelayMS = 1
	cfg.TypingIntervalMS = 1

	env := &testEnv{
		backend: &api.MockBackend{
			ExchangeVal: &models.Reply{Text: "A", Source: models.SourceAPI},
			BaseURLVal:  "http://faq.local",
		},
		tui: &mockTUI{},
		out: &bytes.Buffer{},
		err: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		Config:     &cfg,
		Backend:    env.backend,
		TUI:        env.tui,
		Logger:     zap.NewNop(),
		In:         strings.NewReader(stdin),
		Out:        env.out,
		Err:        env.err,
		IsTerminal: func(any) bool { return false },
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRoot_PositionalQuestion(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("How do I reset?"))
	assert.Equal(t, []string{"How do I reset?"}, env.backend.SentMessages())
	assert.Equal(t, "A\n", env.out.String())
	assert.Contains(t, env.err.String(), "source: api")
}

func TestRoot_Stdin(t *testing.T) {
	env := newTestEnv(t, "question from stdin\n")

	require.NoError(t, env.run())
	assert.Equal(t, []string{"question from stdin"}, env.backend.SentMessages())
}

func TestRoot_FileFlag(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(t.TempDir(), "q.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	require.NoError(t, env.run("-f", path))
	assert.Equal(t, []string{"from file"}, env.backend.SentMessages())
}

func TestRoot_HelpWithoutInput(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run())
	assert.Contains(t, env.out.String(), "faqchat")
	assert.Empty(t, env.backend.SentMessages())
}

func TestRoot_Version(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("--version"))
	assert.Contains(t, env.out.String(), "faqchat "+Version)
}

func TestRoot_EndpointFlag(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("--endpoint", "http://faq.internal:5000/", "ping"))
	assert.Equal(t, "http://faq.internal:5000", env.deps.Config.Endpoint)

	env = newTestEnv(t, "")
	assert.Error(t, env.run("--endpoint", "ftp://nope", "ping"))
}

func TestAsk_Raw(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("ask", "--raw", "hi"))
	assert.Equal(t, "A\n", env.out.String())
	assert.Empty(t, env.err.String())
}

func TestAsk_Blank(t *testing.T) {
	env := newTestEnv(t, "")

	err := env.run("ask", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
	assert.Empty(t, env.backend.SentMessages())
}

func TestAsk_Failure(t *testing.T) {
	env := newTestEnv(t, "")
	cause := errors.New("timeout")
	env.backend.ExchangeErr = cause

	err := env.run("ask", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, env.out.String())
}

func TestAsk_OutputFile(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(t.TempDir(), "reply.md")

	require.NoError(t, env.run("ask", "-o", path, "hi"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n", string(data))
	assert.Empty(t, env.out.String())
}

func TestAsk_Copy(t *testing.T) {
	env := newTestEnv(t, "")

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	require.NoError(t, env.run("ask", "--copy", "hi"))
	assert.Equal(t, "A", copied)
}

func TestChat_Plain(t *testing.T) {
	env := newTestEnv(t, "hello\n\nquit\nignored\n")

	require.NoError(t, env.run("chat"))
	assert.Equal(t, []string{"hello"}, env.backend.SentMessages())
	assert.Contains(t, env.out.String(), "You: hello\n")
	assert.Contains(t, env.out.String(), "Bot: A\n")
	assert.Contains(t, env.out.String(), "source: api")
	assert.False(t, env.tui.called)
}

func TestChat_TUIOnTerminal(t *testing.T) {
	env := newTestEnv(t, "")
	env.deps.IsTerminal = func(any) bool { return true }

	require.NoError(t, env.run("chat"))
	assert.True(t, env.tui.called)
	assert.Equal(t, env.backend, env.tui.backend)

	logPath, err := config.GetLogPath()
	require.NoError(t, err)
	_, err = os.Stat(logPath)
	assert.NoError(t, err, "TUI mode logs to a file")
}

func TestChat_PlainFlag(t *testing.T) {
	env := newTestEnv(t, "exit\n")
	env.deps.IsTerminal = func(any) bool { return true }

	require.NoError(t, env.run("chat", "--plain"))
	assert.False(t, env.tui.called)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("ping"))
	assert.True(t, env.backend.PingCalled)
	assert.Contains(t, env.out.String(), "http://faq.local is up")

	env = newTestEnv(t, "")
	env.backend.PingErr = errors.New("connection refused")
	err := env.run("ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPending(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.run("pending"))
	assert.Equal(t, "No pending questions\n", env.out.String())

	env = newTestEnv(t, "")
	env.backend.PendingVal = []models.PendingQuestion{
		{Question: "How do refunds work?", CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)},
		{Question: "Where is my invoice?"},
	}
	require.NoError(t, env.run("pending"))
	assert.Equal(t,
		"2026-03-01 10:30\tHow do refunds work?\n-\tWhere is my invoice?\n",
		env.out.String())
}

func TestAnswer(t *testing.T) {
	env := newTestEnv(t, "")

	assert.Error(t, env.run("answer", "-q", "only question"))
	assert.Empty(t, env.backend.AnsweredPairs)

	require.NoError(t, env.run("answer", "-q", "Q", "-a", "Ans"))
	assert.Equal(t, [][2]string{{"Q", "Ans"}}, env.backend.AnsweredPairs)
	assert.Contains(t, env.out.String(), "Answer saved")
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t, "")
	env.backend.GenerateVal = "Generated answer"

	require.NoError(t, env.run("generate", "-q", "Q"))
	assert.Equal(t, "Generated answer\n", env.out.String())
	assert.Equal(t, []string{"Q"}, env.backend.Generated)
	assert.Empty(t, env.backend.AnsweredPairs, "the backend stores generated answers itself")

	assert.Error(t, env.run("generate", "-q", "Q", "--save"), "no second store step")
	assert.Equal(t, []string{"Q"}, env.backend.Generated)
	assert.Empty(t, env.backend.AnsweredPairs)

	assert.Error(t, env.run("generate"))
	assert.Len(t, env.backend.Generated, 1)
}

func TestConfig_SetAndShow(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("config", "set", "endpoint", "http://faq.internal:8080/"))
	require.NoError(t, env.run("config", "set", "reveal_delay_ms", "5"))

	cfg, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "http://faq.internal:8080", cfg.Endpoint)
	assert.Equal(t, 5, cfg.RevealDelayMS)

	env.out.Reset()
	require.NoError(t, env.run("config", "show"))
	assert.Contains(t, env.out.String(), "http://faq.internal:8080")

	assert.Error(t, env.run("config", "set", "nope", "1"))
	assert.Error(t, env.run("config", "set", "reveal_delay_ms", "soon"))
}

func TestConfig_PathAndKeys(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.run("config", "path"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(env.out.String()), filepath.Join(".faqchat", "config.json")))

	env.out.Reset()
	require.NoError(t, env.run("config", "keys"))
	assert.Contains(t, env.out.String(), "endpoint\n")
	assert.Contains(t, env.out.String(), "markdown.style")
}
