package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const webhookTimeout = 10 * time.Second

var ErrInvalidWebhookURL = errors.New("invalid webhook URL")

// Sender posts messages to incoming webhooks.
type Sender struct {
	httpClient *http.Client
}

// NewSender creates a Sender. A nil client selects one with a 10s timeout.
func NewSender(hc *http.Client) *Sender {
	if hc == nil {
		hc = &http.Client{Timeout: webhookTimeout}
	}
	return &Sender{httpClient: hc}
}

// Send posts msg to webhookURL once. Every failure is returned; there are no
// retries.
func (s *Sender) Send(ctx context.Context, webhookURL string, msg Message) error {
	u, err := url.ParseRequestURI(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidWebhookURL, webhookURL)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req) //nolint:gosec // webhook URL from pipeline config
	if err != nil {
		return fmt.Errorf("slack send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("slack read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack webhook %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
