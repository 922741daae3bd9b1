package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jorellortega/covionpartners-sub003/pkg/config"
)

// Client posts notifications to the platform's notification service.
// The engine treats delivery as fire-and-forget: callers log failures
// and move on, a lost notification never rolls back financial state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a notification client from configuration.
func NewClient(cfg *config.NotifyConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Notify delivers one event to a user.
func (c *Client) Notify(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"user_id": userID,
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned %s", resp.Status)
	}
	return nil
}
