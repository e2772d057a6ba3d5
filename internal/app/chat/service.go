// Package chat relays assistant messages to a third-party webhook. The webhook
// speaks JSON in and plain text out; nothing is stored on this side.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrWebhookUnavailable signals the webhook could not be reached or answered
// with a failure status.
var ErrWebhookUnavailable = errors.New("chat webhook unavailable")

// ErrEmptyMessage rejects blank input before any network call.
var ErrEmptyMessage = errors.New("message is required")

// Service forwards chat messages and returns the webhook's reply.
type Service interface {
	Send(ctx context.Context, sessionID, message string) (string, error)
}

type service struct {
	webhookURL string
	client     *http.Client
}

// New constructs a chat Service against the given webhook URL.
func New(webhookURL string) Service {
	return &service{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 20 * time.Second},
	}
}

type webhookRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (s *service) Send(ctx context.Context, sessionID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	payload, err := json.Marshal(webhookRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return "", fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWebhookUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrWebhookUnavailable, res.StatusCode)
	}

	// The webhook replies with plain text, not JSON.
	body, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read webhook reply: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
