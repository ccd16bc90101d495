// Package push delivers push notifications through the OneSignal REST API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://onesignal.com/api/v1"

// Notification is a single OneSignal message. Contents maps language codes to
// the localized body shown on the device.
type Notification struct {
	Contents               map[string]string `json:"contents"`
	IncludeSubscriptionIDs []string          `json:"include_subscription_ids"`
	Name                   string            `json:"name,omitempty"`
}

// Sender dispatches a notification to a set of device subscriptions.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Config holds the OneSignal application credentials.
type Config struct {
	AppID   string
	APIKey  string
	BaseURL string // defaults to the OneSignal API; overridable for tests
}

// Client talks to the OneSignal notifications endpoint.
type Client struct {
	appID   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient validates credentials and returns a ready client. Missing
// credentials are a configuration error reported before any dispatch is
// attempted.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, errors.New("ONESIGNAL_APP_ID must be set")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("ONESIGNAL_API_KEY must be set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		appID:   cfg.AppID,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Send posts the notification to OneSignal. All subscription IDs travel in a
// single request.
func (c *Client) Send(ctx context.Context, n Notification) error {
	payload := struct {
		AppID string `json:"app_id"`
		Notification
	}{
		AppID:        c.appID,
		Notification: n,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("onesignal returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
