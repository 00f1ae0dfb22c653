package notifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/webhook"
)

// New builds a publisher for every sink configured in appConfig. With no
// sink configured it returns a publisher that drops events.
func New(appConfig *config.AppConfig, logger *logger.Logger, apiMetrics *monitoring.ExternalAPIMetrics) (IPublisher, []*monitoring.CircuitBreaker, error) {
	var (
		publishers []IPublisher
		breakers   []*monitoring.CircuitBreaker
	)

	if len(appConfig.Kafka.Brokers) > 0 {
		cb, err := monitoring.NewCircuitBreaker("notify_kafka", monitoring.CircuitBreakerConfigs["notify_kafka"], apiMetrics, logger)
		if err != nil {
			return nil, nil, errors.Wrap(err, "kafka circuit breaker")
		}
		publishers = append(publishers, NewKafka(appConfig.Kafka.Brokers, appConfig.Kafka.EscrowTopic, cb))
		breakers = append(breakers, cb)
	}

	if appConfig.Notifier.WebhookURL != "" {
		cb, err := monitoring.NewCircuitBreaker("notify_webhook", monitoring.CircuitBreakerConfigs["notify_webhook"], apiMetrics, logger)
		if err != nil {
			return nil, nil, errors.Wrap(err, "webhook circuit breaker")
		}
		publishers = append(publishers, NewWebhook(webhook.New(logger), appConfig.Notifier.WebhookURL, cb))
		breakers = append(breakers, cb)
	}

	switch len(publishers) {
	case 0:
		return Nop{}, nil, nil
	case 1:
		return publishers[0], breakers, nil
	default:
		return NewMulti(logger, publishers...), breakers, nil
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(ctx context.Context, events ...Event) error { return nil }

func (Nop) Close() error { return nil }

// Multi fans events out to several publishers. One failing sink does not
// stop delivery to the others.
type Multi struct {
	publishers []IPublisher
	logger     *logger.Logger
}

func NewMulti(logger *logger.Logger, publishers ...IPublisher) *Multi {
	return &Multi{publishers: publishers, logger: logger}
}

func (m *Multi) Publish(ctx context.Context, events ...Event) error {
	var firstErr error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, events...); err != nil {
			m.logger.Error("[Multi][Publish]", map[string]string{
				"error": err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *Multi) Close() error {
	var firstErr error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
