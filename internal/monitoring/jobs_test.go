package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/tradeshield-backend/internal/utils/webhook"
)

func newTestJobStatusManager(t *testing.T) (*JobStatusManager, *prometheus.Registry) {
	t.Helper()
	metrics := NewBackgroundJobMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	jsm := NewJobStatusManager(setupTestLogger(), metrics)
	t.Cleanup(jsm.Stop)
	return jsm, registry
}

func TestJobStatusManager_RegisterJob(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)

	jsm.RegisterJob("escrow_expiry")
	first, _ := jsm.GetJobStatus("escrow_expiry")
	jsm.RegisterJob("escrow_expiry")
	second, exists := jsm.GetJobStatus("escrow_expiry")

	assert.True(t, exists)
	assert.Equal(t, JobStatusPending, second.Status)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "re-registering must not reset the job")
	assert.NotNil(t, second.Metadata)
}

func TestJobStatusManager_StartAndComplete(t *testing.T) {
	// Arrange
	jsm, registry := newTestJobStatusManager(t)
	jobName := "swap_expiry"

	// Act
	jsm.StartJob(jobName)
	time.Sleep(5 * time.Millisecond)
	jsm.CompleteJob(jobName, nil, map[string]interface{}{"expired": 3})

	// Assert
	status, exists := jsm.GetJobStatus(jobName)
	require.True(t, exists)
	assert.Equal(t, JobStatusSuccess, status.Status)
	assert.Equal(t, int64(1), status.SuccessCount)
	assert.Equal(t, 3, status.Metadata["expired"])
	assert.True(t, status.LastDuration >= 5*time.Millisecond)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		switch mf.GetName() {
		case "tradeshield_background_jobs_active":
			assert.Equal(t, float64(0), mf.GetMetric()[0].GetGauge().GetValue())
		case "tradeshield_background_job_runs_total":
			assert.Equal(t, "success", getLabelValue(mf.GetMetric()[0].GetLabel(), "status"))
		}
	}
}

func TestJobStatusManager_ConsecutiveFailures(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)
	jobName := "inr_expiry"

	for _, err := range []error{errors.New("sql: database is closed"), errors.New("connection reset"), nil, errors.New("boom")} {
		jsm.StartJob(jobName)
		jsm.CompleteJob(jobName, err, nil)
	}

	status, _ := jsm.GetJobStatus(jobName)
	assert.Equal(t, JobStatusFailed, status.Status)
	assert.Equal(t, int64(1), status.SuccessCount)
	assert.Equal(t, int64(3), status.FailureCount)
	assert.Equal(t, int64(1), status.ConsecutiveFailures)
	assert.Equal(t, "boom", status.LastError)
	assert.Equal(t, "unknown", status.Metadata["error_type"])
}

func TestJobStatusManager_StalledJobDetection(t *testing.T) {
	// Arrange
	metrics := NewBackgroundJobMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	jsm := &JobStatusManager{
		statuses:         make(map[string]*JobStatus),
		logger:           setupTestLogger(),
		metrics:          metrics,
		stalledThreshold: 50 * time.Millisecond,
		cleanupInterval:  time.Hour,
		retentionPeriod:  24 * time.Hour,
		stop:             make(chan struct{}),
	}
	jsm.StartJob("market_rate_broadcast")

	// Act
	time.Sleep(80 * time.Millisecond)
	jsm.detectStalledJobs()

	// Assert
	status, _ := jsm.GetJobStatus("market_rate_broadcast")
	assert.Equal(t, JobStatusStalled, status.Status)
	assert.Equal(t, 1, jsm.GetJobsSummary().StalledJobs)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() == "tradeshield_background_jobs_stalled" {
			assert.Equal(t, float64(1), mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestJobStatusManager_CleanupOldStatuses(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)
	jsm.RegisterJob("old")
	jsm.RegisterJob("fresh")

	jsm.mu.Lock()
	jsm.statuses["old"].UpdatedAt = time.Now().Add(-48 * time.Hour)
	jsm.mu.Unlock()

	jsm.cleanupOldStatuses()

	_, oldExists := jsm.GetJobStatus("old")
	_, freshExists := jsm.GetJobStatus("fresh")
	assert.False(t, oldExists)
	assert.True(t, freshExists)
}

func TestJobStatusManager_ConcurrentAccess(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			name := fmt.Sprintf("job_%d", g%3)
			for i := 0; i < 20; i++ {
				jsm.StartJob(name)
				jsm.CompleteJob(name, nil, nil)
				_ = jsm.GetAllJobStatuses()
			}
		}(g)
	}
	wg.Wait()

	var total int64
	for _, status := range jsm.GetAllJobStatuses() {
		total += status.SuccessCount
	}
	assert.Equal(t, int64(200), total)
}

func TestInstrumentedJob_SuccessfulExecution(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)

	executed := false
	job := NewInstrumentedJob("test_successful_job", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		executed = hasDeadline
		return nil
	}, jsm, setupTestLogger(), 5*time.Second)

	job.Execute()

	assert.True(t, executed, "job should run with a deadline")
	assert.Equal(t, "test_successful_job", job.Name())
	status, _ := jsm.GetJobStatus("test_successful_job")
	assert.Equal(t, JobStatusSuccess, status.Status)
	assert.Empty(t, status.LastError)
}

func TestInstrumentedJob_FailureExecution(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)

	job := NewInstrumentedJob("test_failing_job", func(ctx context.Context) error {
		return errors.New("database unavailable")
	}, jsm, setupTestLogger(), 5*time.Second)

	job.Execute()

	status, _ := jsm.GetJobStatus("test_failing_job")
	assert.Equal(t, JobStatusFailed, status.Status)
	assert.Equal(t, "database unavailable", status.LastError)
	assert.Equal(t, "database", status.Metadata["error_type"])
}

func TestInstrumentedJob_Heartbeat(t *testing.T) {
	var pings int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pings, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	jsm, _ := newTestJobStatusManager(t)
	client := webhook.New(setupTestLogger())

	ok := NewInstrumentedJob("swap_expiry", func(ctx context.Context) error {
		return nil
	}, jsm, setupTestLogger(), 5*time.Second).WithHeartbeat(client, srv.URL)
	failing := NewInstrumentedJob("inr_expiry", func(ctx context.Context) error {
		return errors.New("sweep failed")
	}, jsm, setupTestLogger(), 5*time.Second).WithHeartbeat(client, srv.URL)

	ok.Execute()
	failing.Execute()

	assert.Equal(t, int32(1), atomic.LoadInt32(&pings), "only successful runs ping the uptime monitor")
}

func TestInstrumentedJob_TimeoutExecution(t *testing.T) {
	jsm, registry := newTestJobStatusManager(t)

	cancelled := make(chan struct{})
	job := NewInstrumentedJob("test_timeout_job", func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}, jsm, setupTestLogger(), 50*time.Millisecond)

	start := time.Now()
	job.Execute()

	assert.Less(t, time.Since(start), time.Second)
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}

	status, _ := jsm.GetJobStatus("test_timeout_job")
	assert.Equal(t, JobStatusFailed, status.Status)
	assert.Contains(t, status.LastError, "timeout")
	assert.Equal(t, "timeout", status.Metadata["error_type"])
	assert.Equal(t, "50ms", status.Metadata["timeout"])

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range metricFamilies {
		if mf.GetName() == "tradeshield_job_timeouts_total" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInstrumentedJob_PanicRecovery(t *testing.T) {
	jsm, _ := newTestJobStatusManager(t)

	job := NewInstrumentedJob("test_panic_job", func(ctx context.Context) error {
		panic("unexpected panic in job")
	}, jsm, setupTestLogger(), 5*time.Second)

	assert.NotPanics(t, job.Execute)

	status, _ := jsm.GetJobStatus("test_panic_job")
	assert.Equal(t, JobStatusFailed, status.Status)
	assert.Contains(t, status.LastError, "panicked")
	assert.Contains(t, status.Metadata, "stack_trace")
	assert.Equal(t, "panic", status.Metadata["error_type"])
}

func TestClassifyJobError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: errors.New("context deadline exceeded"), want: "timeout"},
		{err: errors.New("sql: no rows"), want: "database"},
		{err: errors.New("network is unreachable"), want: "network"},
		{err: errors.New("external api failed"), want: "external_api"},
		{err: errors.New("something else"), want: "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyJobError(tt.err))
	}
}

func TestBackgroundJobMetrics_PendingTransactions(t *testing.T) {
	metrics := NewBackgroundJobMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	metrics.SetPendingTransactions("escrow", 4)
	metrics.SetPendingTransactions("swap", 0)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != "tradeshield_pending_transactions_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 2)
		for _, metric := range mf.GetMetric() {
			if getLabelValue(metric.GetLabel(), "transaction_type") == "escrow" {
				assert.Equal(t, float64(4), metric.GetGauge().GetValue())
			}
		}
	}
}
