package monitoring

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

// CircuitBreaker guards calls to one outbound integration. Every call gets a
// deadline and its outcome is recorded in ExternalAPIMetrics.
type CircuitBreaker struct {
	name     string
	breaker  *gobreaker.CircuitBreaker
	metrics  *ExternalAPIMetrics
	logger   *logger.Logger
	timeouts TimeoutConfig
}

func NewCircuitBreaker(name string, config CircuitBreakerConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) (*CircuitBreaker, error) {
	return NewCircuitBreakerWithTimeout(name, config, DefaultTimeoutConfig, metrics, logger)
}

func NewCircuitBreakerWithTimeout(name string, config CircuitBreakerConfig, timeouts TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) (*CircuitBreaker, error) {
	if err := config.validate(); err != nil {
		return nil, errors.Wrapf(err, "circuit breaker %s", name)
	}

	threshold := uint32(config.ConsecutiveFailureThreshold)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("[CircuitBreaker] state change", map[string]string{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.UpdateCircuitBreakerState(name, to)
		},
	})
	metrics.UpdateCircuitBreakerState(name, gobreaker.StateClosed)

	return &CircuitBreaker{
		name:     name,
		breaker:  breaker,
		metrics:  metrics,
		logger:   logger,
		timeouts: timeouts,
	}, nil
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Execute runs fn through the breaker with the request timeout applied to ctx.
// A rejected call is recorded with status circuit_open and never reaches fn.
func (cb *CircuitBreaker) Execute(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		return nil, cb.call(ctx, operation, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		cb.metrics.RecordAPICall(cb.name, operation, string(ErrorTypeCircuitOpen), 0)
	}
	return err
}

func (cb *CircuitBreaker) call(parent context.Context, operation string, fn func(ctx context.Context) error) error {
	timeout := cb.timeouts.RequestTimeout
	if operation == "health_check" {
		timeout = cb.timeouts.HealthCheckTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	// fn may return ctx.Err() before the deadline branch is picked
	timedOut := err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)
	if timedOut {
		cb.metrics.RecordTimeout(cb.name, operation)
		err = fmt.Errorf("timeout: %v", ctx.Err())
	}

	elapsed := time.Since(start).Seconds()
	if err == nil {
		cb.metrics.RecordAPICall(cb.name, operation, "success", elapsed)
		return nil
	}

	cb.logger.Error("[CircuitBreaker] call failed", map[string]string{
		"breaker":    cb.name,
		"operation":  operation,
		"duration":   strconv.FormatFloat(elapsed, 'f', 3, 64),
		"error":      err.Error(),
		"error_type": string(classifyError(err)),
		"cb_state":   cb.breaker.State().String(),
	})
	if !timedOut {
		cb.metrics.RecordAPICall(cb.name, operation, "error", elapsed)
	}
	return err
}

// checked in order; the first rule with a matching keyword wins
var apiErrorRules = []struct {
	kind     APIErrorType
	keywords []string
}{
	{ErrorTypeTimeout, []string{"timeout", "deadline exceeded", "context canceled"}},
	{ErrorTypeNetworkError, []string{"network", "connection", "unreachable", "dns"}},
	{ErrorTypeServerError, []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable"}},
	{ErrorTypeClientError, []string{"400", "401", "403", "404", "429", "bad request", "unauthorized", "forbidden", "not found", "rate limit"}},
}

func classifyError(err error) APIErrorType {
	if err == nil {
		return ""
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range apiErrorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.kind
			}
		}
	}
	return ErrorTypeUnknown
}
