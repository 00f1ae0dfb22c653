package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

// Client is a small HTTP client for outbound webhook calls
type Client struct {
	httpClient *resty.Client
	logger     *logger.Logger
}

// New creates a new webhook client with timeout
func New(logger *logger.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "tradeshield-backend"),
		logger: logger,
	}
}

// PostJSON sends payload to url and fails on any non-2xx answer.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(url)
	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("webhook %s responded with status %d", url, resp.StatusCode())
	}

	c.logger.Debug("Webhook delivered", map[string]string{
		"url":         url,
		"status_code": resp.Status(),
	})
	return nil
}

// Ping makes a GET request to url. Used for uptime heartbeats.
func (c *Client) Ping(ctx context.Context, url string) {
	if url == "" {
		return
	}

	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		c.logger.Error("Failed to call uptime webhook", map[string]string{
			"url":   url,
			"error": err.Error(),
		})
		return
	}

	c.logger.Info("Successfully called uptime webhook", map[string]string{
		"url":         url,
		"status_code": resp.Status(),
	})
}
