package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/faqchat/internal/errors"
	"github.com/diogo/faqchat/internal/models"
)

// maxErrorBody limits how much of a failed response is read for diagnostics
const maxErrorBody = 4096

// do sends one request and returns the body of a 2xx response.
// Every failure is reported as a *errors.TransportFailure.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	endpoint := c.url(path)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.String("op", op),
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
	)
	start := time.Now()
	log.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, apierrors.NewNetworkFailure(op, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := errorMessage(errorBody, resp.StatusCode)
		log.Warn("unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return nil, apierrors.NewStatusFailure(op, endpoint, resp.StatusCode, message)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkFailure(op, endpoint, err)
	}

	log.Debug("request finished",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

// doJSON is do for endpoints that must answer with JSON
func (c *Client) doJSON(ctx context.Context, op, method, path string, payload any) (gjson.Result, error) {
	data, err := c.do(ctx, op, method, path, payload)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, apierrors.NewParseFailure(op, c.url(path), "response is not valid JSON")
	}
	return gjson.ParseBytes(data), nil
}

// errorMessage extracts a readable message from a failed response body.
// The backend reports failures as {"error": "..."}.
func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, models.FieldError); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
