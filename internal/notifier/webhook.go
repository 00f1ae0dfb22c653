package notifier

import (
	"context"

	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
)

type poster interface {
	PostJSON(ctx context.Context, url string, payload interface{}) error
}

// Webhook posts each event as JSON to a single URL.
type Webhook struct {
	client  poster
	url     string
	breaker *monitoring.CircuitBreaker
}

func NewWebhook(client poster, url string, breaker *monitoring.CircuitBreaker) *Webhook {
	return &Webhook{client: client, url: url, breaker: breaker}
}

func (w *Webhook) Publish(ctx context.Context, events ...Event) error {
	for _, event := range events {
		event := event
		err := w.breaker.Execute(ctx, "publish", func(ctx context.Context) error {
			return w.client.PostJSON(ctx, w.url, event)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Webhook) Close() error {
	return nil
}
