package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errors "github.com/deevseek/washcorner/internal"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, target, message string) error
}

// FonnteSender posts messages to the Fonnte WhatsApp gateway.
type FonnteSender struct {
	url    string
	token  string
	client *http.Client
}

func NewFonnteSender(url, token string, timeout time.Duration) *FonnteSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FonnteSender{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *FonnteSender) Send(ctx context.Context, target, message string) error {
	body, err := json.Marshal(map[string]string{
		"target":  target,
		"message": message,
	})
	if err != nil {
		return errors.NewNotificationDeliveryError("failed to encode message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return errors.NewNotificationDeliveryError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.NewNotificationDeliveryError("gateway request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewNotificationDeliveryError(
			fmt.Sprintf("gateway returned status %d", resp.StatusCode),
			fmt.Errorf("response: %s", bytes.TrimSpace(snippet)))
	}
	return nil
}
