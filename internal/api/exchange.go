package api

import (
	"context"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/faqchat/internal/errors"
	"github.com/diogo/faqchat/internal/models"
)

// Exchange sends one message to the chat endpoint and returns the decoded reply
func (c *Client) Exchange(ctx context.Context, message string) (*models.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	data, err := c.do(ctx, "chat", http.MethodPost, models.PathChat, map[string]string{models.FieldMessage: message})
	if err != nil {
		return nil, err
	}

	reply, ok := ParseReply(data)
	if !ok {
		return nil, apierrors.NewParseFailure("chat", c.url(models.PathChat), "response is not valid JSON")
	}
	return reply, nil
}

// ParseReply decodes a chat response body. A key repeated in the body
// resolves to its last occurrence, as in a browser's JSON.parse.
// The reply text is taken from "answer", then "response", then the
// ReplyFallback literal. It returns false when body is not JSON.
func ParseReply(body []byte) (*models.Reply, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	parsed := gjson.ParseBytes(body)

	reply := &models.Reply{Text: models.ReplyFallback}
	for _, field := range []string{models.FieldAnswer, models.FieldResponse} {
		if text, ok := truthyText(lastField(parsed, field)); ok {
			reply.Text = text
			break
		}
	}

	if source := lastField(parsed, models.FieldSource); source.Type == gjson.String {
		reply.Source = source.Str
	}
	if score := lastField(parsed, models.FieldScore); score.Type == gjson.Number {
		v := score.Num
		reply.Score = &v
	}

	return reply, true
}

// lastField returns the last top-level value stored under key.
// gjson's Get stops at the first match.
func lastField(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	if !obj.IsObject() {
		return found
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}
		return true
	})
	return found
}

// truthyText returns the display text of a field that is present and not
// falsy: missing, null, false, "" and 0 all fall through to the next field.
func truthyText(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String:
		return r.Str, r.Str != ""
	case gjson.Number:
		return r.Raw, r.Num != 0
	case gjson.True:
		return "true", true
	case gjson.JSON:
		return r.Raw, true
	default:
		return "", false
	}
}
