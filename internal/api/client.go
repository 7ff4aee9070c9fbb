// Package api implements the HTTP client for the faqchat backend.
package api

import (
	"context"
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/faqchat/internal/logging"
	"github.com/diogo/faqchat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the backend client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BackendInterface defines the backend operations used by the commands and the TUI
type BackendInterface interface {
	Exchange(ctx context.Context, message string) (*models.Reply, error)
	Ping(ctx context.Context) error
	Pending(ctx context.Context) ([]models.PendingQuestion, error)
	Answer(ctx context.Context, question, answer string) error
	Generate(ctx context.Context, question string) (string, error)
	BaseURL() string
}

// Ensure Client implements BackendInterface
var _ BackendInterface = (*Client)(nil)

// Client talks to the chat backend over JSON
type Client struct {
	httpClient     HTTPDoer
	baseURL        string
	timeoutSeconds int
	logger         *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout bounds every request. 0 keeps the transport default.
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.OrNop(client.logger)

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.timeoutSeconds > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(client.timeoutSeconds))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// url joins the base URL and a backend path
func (c *Client) url(path string) string {
	return c.baseURL + path
}
