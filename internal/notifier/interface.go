package notifier

import (
	"context"
	"time"
)

const (
	EventEscrowCreated   = "escrow.created"
	EventEscrowAccepted  = "escrow.accepted"
	EventEscrowFunded    = "escrow.funded"
	EventEscrowPaid      = "escrow.paid"
	EventEscrowDisputed  = "escrow.disputed"
	EventEscrowCompleted = "escrow.completed"
	EventEscrowCancelled = "escrow.cancelled"
)

// Event is one domain event delivered to downstream consumers. Key groups
// events that must stay ordered, e.g. all events of one trade.
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

type IPublisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}
