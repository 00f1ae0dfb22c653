package monitoring

import (
	"time"

	"github.com/pkg/errors"
)

type CircuitBreakerConfig struct {
	MaxRequests                 uint32
	Interval                    time.Duration
	Timeout                     time.Duration
	ConsecutiveFailureThreshold int
}

func (c CircuitBreakerConfig) validate() error {
	switch {
	case c.MaxRequests == 0:
		return errors.New("max requests must be greater than 0")
	case c.ConsecutiveFailureThreshold <= 0:
		return errors.New("consecutive failure threshold must be greater than 0")
	case c.Timeout < 0, c.Interval < 0:
		return errors.New("timeout and interval must be non-negative")
	}
	return nil
}

type TimeoutConfig struct {
	RequestTimeout     time.Duration
	HealthCheckTimeout time.Duration
}

// APIErrorType is the status label of a failed outbound call.
type APIErrorType string

const (
	ErrorTypeTimeout      APIErrorType = "timeout"
	ErrorTypeNetworkError APIErrorType = "network_error"
	ErrorTypeServerError  APIErrorType = "server_error"
	ErrorTypeClientError  APIErrorType = "client_error"
	ErrorTypeCircuitOpen  APIErrorType = "circuit_open"
	ErrorTypeUnknown      APIErrorType = "unknown"
)

// CircuitBreakerConfigs is keyed by breaker name.
var CircuitBreakerConfigs = map[string]CircuitBreakerConfig{
	"notify_kafka": {
		MaxRequests:                 5,
		Interval:                    30 * time.Second,
		Timeout:                     30 * time.Second,
		ConsecutiveFailureThreshold: 3,
	},
	"notify_webhook": {
		MaxRequests:                 3,
		Interval:                    30 * time.Second,
		Timeout:                     time.Minute,
		ConsecutiveFailureThreshold: 5,
	},
}

var DefaultTimeoutConfig = TimeoutConfig{
	RequestTimeout:     10 * time.Second,
	HealthCheckTimeout: 3 * time.Second,
}
