package api

import (
	"errors"
	"io"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// recordedRequest captures what the client sent
type recordedRequest struct {
	Method string
	URL    string
	Header fhttp.Header
	Body   string
}

// MockHttpClient implements HTTPDoer with a canned response
type MockHttpClient struct {
	mu       sync.Mutex
	Status   int
	Body     string
	Err      error
	Requests []recordedRequest
}

func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := recordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		rec.Body = string(data)
	}
	m.Requests = append(m.Requests, rec)

	if m.Err != nil {
		return nil, m.Err
	}
	status := m.Status
	if status == 0 {
		status = 200
	}
	return &fhttp.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(m.Body)),
		Header:     make(fhttp.Header),
	}, nil
}

func (m *MockHttpClient) last() recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return recordedRequest{}
	}
	return m.Requests[len(m.Requests)-1]
}

// failingReader errors after the first read
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func newTestClient(t interface{ Fatalf(string, ...any) }, mock HTTPDoer) *Client {
	c, err := NewClient("http://faq.test/", WithHTTPClient(mock))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}
