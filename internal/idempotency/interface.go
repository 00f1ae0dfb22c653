package idempotency

import (
	"context"
	"time"
)

// Record is a stored response. Pending marks a request that is still running.
type Record struct {
	Pending     bool   `json:"pending"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type IStore interface {
	// Reserve claims key for an in-flight request. It reports false when the
	// key is already claimed or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, key string, record Record, ttl time.Duration) error
	Release(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
