package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events to one topic, keyed so that events sharing a key
// land on the same partition.
type Kafka struct {
	writer  messageWriter
	breaker *monitoring.CircuitBreaker
}

func NewKafka(brokers []string, topic string, breaker *monitoring.CircuitBreaker) *Kafka {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &Kafka{writer: writer, breaker: breaker}
}

func (k *Kafka) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, len(events))
	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return errors.Wrapf(err, "marshal %s event", event.Type)
		}
		msgs[i] = kafka.Message{
			Key:   []byte(event.Key),
			Value: data,
			Time:  event.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
			},
		}
	}

	return k.breaker.Execute(ctx, "publish", func(ctx context.Context) error {
		return k.writer.WriteMessages(ctx, msgs...)
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
