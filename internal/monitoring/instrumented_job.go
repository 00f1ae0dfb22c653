package monitoring

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/webhook"
)

// InstrumentedJob runs a scheduled sweep under a deadline and reports every
// run to the JobStatusManager.
type InstrumentedJob struct {
	jobName       string
	jobFunc       func(ctx context.Context) error
	statusManager *JobStatusManager
	logger        *logger.Logger
	timeout       time.Duration

	heartbeat    *webhook.Client
	heartbeatURL string
}

func NewInstrumentedJob(
	jobName string,
	jobFunc func(ctx context.Context) error,
	statusManager *JobStatusManager,
	logger *logger.Logger,
	timeout time.Duration,
) *InstrumentedJob {
	statusManager.RegisterJob(jobName)

	return &InstrumentedJob{
		jobName:       jobName,
		jobFunc:       jobFunc,
		statusManager: statusManager,
		logger:        logger,
		timeout:       timeout,
	}
}

// WithHeartbeat pings url after every successful run so an external uptime
// monitor notices when the job stops completing.
func (ij *InstrumentedJob) WithHeartbeat(client *webhook.Client, url string) *InstrumentedJob {
	ij.heartbeat = client
	ij.heartbeatURL = url
	return ij
}

func (ij *InstrumentedJob) Name() string {
	return ij.jobName
}

type jobResult struct {
	err      error
	metadata map[string]interface{}
}

// Execute has the signature cron expects. A run that outlives the timeout is
// recorded as failed; its goroutine keeps the cancelled context.
func (ij *InstrumentedJob) Execute() {
	ij.statusManager.StartJob(ij.jobName)

	ctx, cancel := context.WithTimeout(context.Background(), ij.timeout)
	defer cancel()

	done := make(chan jobResult, 1)
	go ij.run(ctx, done)

	var result jobResult
	select {
	case result = <-done:
	case <-ctx.Done():
		result = jobResult{err: ctx.Err()}
	}

	switch {
	case result.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		ij.statusManager.metrics.jobTimeouts.WithLabelValues(ij.jobName).Inc()
		result = jobResult{
			err: fmt.Errorf("job timeout after %v", ij.timeout),
			metadata: map[string]interface{}{
				"error_type": "timeout",
				"timeout":    ij.timeout.String(),
			},
		}
	case result.err != nil && result.metadata == nil:
		result.metadata = map[string]interface{}{"error_type": classifyJobError(result.err)}
	}

	ij.statusManager.CompleteJob(ij.jobName, result.err, result.metadata)

	if result.err == nil {
		ij.beat()
	}
}

func (ij *InstrumentedJob) run(ctx context.Context, done chan<- jobResult) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ij.logger.Error("[InstrumentedJob.run] job panicked", map[string]string{
			"job_name": ij.jobName,
			"panic":    fmt.Sprintf("%v", r),
		})
		done <- jobResult{
			err: fmt.Errorf("job panicked: %v", r),
			metadata: map[string]interface{}{
				"error_type":  "panic",
				"panic":       fmt.Sprintf("%v", r),
				"stack_trace": string(debug.Stack()),
			},
		}
	}()

	done <- jobResult{err: ij.jobFunc(ctx)}
}

func (ij *InstrumentedJob) beat() {
	if ij.heartbeat == nil || ij.heartbeatURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeoutConfig.HealthCheckTimeout)
	defer cancel()
	ij.heartbeat.Ping(ctx, ij.heartbeatURL)
}

// classifyJobError buckets an error message into a coarse cause for the
// error_type label.
func classifyJobError(err error) string {
	if err == nil {
		return ""
	}

	msg := strings.ToLower(err.Error())
	for _, c := range []struct {
		kind     string
		keywords []string
	}{
		{"timeout", []string{"timeout", "deadline"}},
		{"database", []string{"database", "sql"}},
		{"network", []string{"connection", "network"}},
		{"external_api", []string{"external", "api"}},
		{"panic", []string{"panic"}},
	} {
		for _, kw := range c.keywords {
			if strings.Contains(msg, kw) {
				return c.kind
			}
		}
	}
	return "unknown"
}
