package api

import (
	"context"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/faqchat/internal/errors"
	"github.com/diogo/faqchat/internal/models"
)

// timestampLayouts are the created_at formats the backend is known to emit.
// The backend's timestamps usually omit the zone, so naive layouts are tried as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

type questionRequest struct {
	Question string `json:"question"`
}

type answerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ping checks that the backend is up
func (c *Client) Ping(ctx context.Context) error {
	data, err := c.do(ctx, "ping", http.MethodGet, models.PathPing, nil)
	if err != nil {
		return err
	}
	if body := strings.TrimSpace(string(data)); body != models.PongBody {
		return apierrors.NewParseFailure("ping", c.url(models.PathPing), "unexpected ping body: "+body)
	}
	return nil
}

// Pending lists the questions saved for admin review
func (c *Client) Pending(ctx context.Context) ([]models.PendingQuestion, error) {
	parsed, err := c.doJSON(ctx, "pending", http.MethodGet, models.PathPending, nil)
	if err != nil {
		return nil, err
	}
	if !parsed.IsArray() {
		return nil, apierrors.NewParseFailure("pending", c.url(models.PathPending), "expected a JSON array")
	}

	var pending []models.PendingQuestion
	parsed.ForEach(func(_, item gjson.Result) bool {
		question := strings.TrimSpace(item.Get("question").String())
		if question == "" {
			return true
		}
		pending = append(pending, models.PendingQuestion{
			Question:  question,
			CreatedAt: parseTimestamp(item.Get("created_at").String()),
		})
		return true
	})

	return pending, nil
}

// Answer stores an admin-written answer for a pending question
func (c *Client) Answer(ctx context.Context, question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return apierrors.ErrEmptyMessage
	}

	parsed, err := c.doJSON(ctx, "answer", http.MethodPost, models.PathAnswer, answerRequest{
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		return err
	}
	if !parsed.Get("ok").Bool() {
		return apierrors.NewParseFailure("answer", c.url(models.PathAnswer), "backend did not confirm the answer")
	}
	return nil
}

// Generate asks the backend to produce an answer for a pending question
func (c *Client) Generate(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apierrors.ErrEmptyMessage
	}

	parsed, err := c.doJSON(ctx, "generate", http.MethodPost, models.PathGenerate, questionRequest{Question: question})
	if err != nil {
		return "", err
	}

	answer := parsed.Get(models.FieldAnswer)
	if answer.Type != gjson.String || answer.Str == "" {
		return "", apierrors.NewParseFailure("generate", c.url(models.PathGenerate), "response has no answer")
	}
	return answer.Str, nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
