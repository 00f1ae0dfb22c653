package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

type JobExecutionStatus string

const (
	JobStatusPending JobExecutionStatus = "pending"
	JobStatusRunning JobExecutionStatus = "running"
	JobStatusSuccess JobExecutionStatus = "success"
	JobStatusFailed  JobExecutionStatus = "failed"
	JobStatusStalled JobExecutionStatus = "stalled"
)

// JobStatus is the run history of one scheduled job.
type JobStatus struct {
	JobName             string                 `json:"jobName"`
	Status              JobExecutionStatus     `json:"status"`
	LastRunTime         time.Time              `json:"lastRunTime"`
	LastDuration        time.Duration          `json:"lastDuration"`
	SuccessCount        int64                  `json:"successCount"`
	FailureCount        int64                  `json:"failureCount"`
	ConsecutiveFailures int64                  `json:"consecutiveFailures"`
	LastError           string                 `json:"lastError,omitempty"`
	AverageExecution    time.Duration          `json:"averageExecution"`
	MaxExecutionTime    time.Duration          `json:"maxExecutionTime"`
	MinExecutionTime    time.Duration          `json:"minExecutionTime"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

func newJobStatus(name string, status JobExecutionStatus, now time.Time) *JobStatus {
	return &JobStatus{
		JobName:   name,
		Status:    status,
		Metadata:  make(map[string]interface{}),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *JobStatus) runs() int64 {
	return s.SuccessCount + s.FailureCount
}

// observe folds one run duration into the min/max/average figures. It must
// be called before the run is counted.
func (s *JobStatus) observe(d time.Duration) {
	s.LastDuration = d
	if s.runs() == 0 || d < s.MinExecutionTime {
		s.MinExecutionTime = d
	}
	if d > s.MaxExecutionTime {
		s.MaxExecutionTime = d
	}
	n := time.Duration(s.runs())
	s.AverageExecution = (s.AverageExecution*n + d) / (n + 1)
}

func (s *JobStatus) stalled(now time.Time, threshold time.Duration) bool {
	return s.Status == JobStatusRunning && now.Sub(s.LastRunTime) > threshold
}

func (s *JobStatus) clone() JobStatus {
	c := *s
	c.Metadata = make(map[string]interface{}, len(s.Metadata))
	for k, v := range s.Metadata {
		c.Metadata[k] = v
	}
	return c
}

type JobsSummary struct {
	TotalJobs      int       `json:"totalJobs"`
	RunningJobs    int       `json:"runningJobs"`
	HealthyJobs    int       `json:"healthyJobs"`
	UnhealthyJobs  int       `json:"unhealthyJobs"`
	StalledJobs    int       `json:"stalledJobs"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

// JobStatusManager tracks every scheduled job. A background loop flags runs
// that exceed stalledThreshold and forgets jobs idle for retentionPeriod.
type JobStatusManager struct {
	mu               sync.RWMutex
	statuses         map[string]*JobStatus
	logger           *logger.Logger
	metrics          *BackgroundJobMetrics
	stalledThreshold time.Duration
	cleanupInterval  time.Duration
	retentionPeriod  time.Duration
	stop             chan struct{}
	stopOnce         sync.Once
}

func NewJobStatusManager(logger *logger.Logger, metrics *BackgroundJobMetrics) *JobStatusManager {
	jsm := &JobStatusManager{
		statuses:         make(map[string]*JobStatus),
		logger:           logger,
		metrics:          metrics,
		stalledThreshold: 5 * time.Minute,
		cleanupInterval:  time.Hour,
		retentionPeriod:  24 * time.Hour,
		stop:             make(chan struct{}),
	}

	go jsm.every(time.Minute, jsm.detectStalledJobs)
	go jsm.every(jsm.cleanupInterval, jsm.cleanupOldStatuses)

	return jsm
}

func (jsm *JobStatusManager) every(interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-jsm.stop:
			return
		case <-ticker.C:
			fn()
		}
	}
}

func (jsm *JobStatusManager) Stop() {
	jsm.stopOnce.Do(func() { close(jsm.stop) })
}

// RegisterJob is a no-op for a job that is already tracked.
func (jsm *JobStatusManager) RegisterJob(jobName string) {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	if _, ok := jsm.statuses[jobName]; ok {
		return
	}
	jsm.statuses[jobName] = newJobStatus(jobName, JobStatusPending, time.Now())
	jsm.logger.Info("[JobStatusManager.RegisterJob]", map[string]string{
		"job_name": jobName,
	})
}

func (jsm *JobStatusManager) StartJob(jobName string) {
	now := time.Now()

	jsm.mu.Lock()
	status, ok := jsm.statuses[jobName]
	if !ok {
		status = newJobStatus(jobName, JobStatusRunning, now)
		jsm.statuses[jobName] = status
	}
	status.Status = JobStatusRunning
	status.LastRunTime = now
	status.UpdatedAt = now
	jsm.mu.Unlock()

	jsm.metrics.activeJobs.Inc()
	jsm.logger.Debug("[JobStatusManager.StartJob]", map[string]string{
		"job_name": jobName,
	})
}

// CompleteJob records the outcome of the run started by the last StartJob.
func (jsm *JobStatusManager) CompleteJob(jobName string, err error, metadata map[string]interface{}) {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	status, ok := jsm.statuses[jobName]
	if !ok {
		jsm.logger.Error("[JobStatusManager.CompleteJob] unknown job", map[string]string{
			"job_name": jobName,
		})
		return
	}

	now := time.Now()
	duration := now.Sub(status.LastRunTime)
	status.observe(duration)
	status.UpdatedAt = now
	for k, v := range metadata {
		status.Metadata[k] = v
	}
	jsm.metrics.activeJobs.Dec()

	if err == nil {
		status.Status = JobStatusSuccess
		status.SuccessCount++
		status.ConsecutiveFailures = 0
		status.LastError = ""
		jsm.metrics.jobRuns.WithLabelValues(jobName, "success").Inc()
		jsm.metrics.jobDuration.WithLabelValues(jobName, "success").Observe(duration.Seconds())
		return
	}

	status.Status = JobStatusFailed
	status.FailureCount++
	status.ConsecutiveFailures++
	status.LastError = err.Error()
	status.Metadata["error_type"] = classifyJobError(err)
	jsm.metrics.jobRuns.WithLabelValues(jobName, "error").Inc()
	jsm.metrics.jobDuration.WithLabelValues(jobName, "failed").Observe(duration.Seconds())

	jsm.logger.Error("[JobStatusManager.CompleteJob] job failed", map[string]string{
		"job_name":             jobName,
		"duration":             duration.String(),
		"error":                err.Error(),
		"consecutive_failures": fmt.Sprintf("%d", status.ConsecutiveFailures),
	})
}

func (jsm *JobStatusManager) GetJobStatus(jobName string) (*JobStatus, bool) {
	jsm.mu.RLock()
	defer jsm.mu.RUnlock()

	status, ok := jsm.statuses[jobName]
	if !ok {
		return nil, false
	}
	c := status.clone()
	return &c, true
}

// GetAllJobStatuses reports a run past the stall threshold as stalled even
// before the detection loop has marked it.
func (jsm *JobStatusManager) GetAllJobStatuses() map[string]JobStatus {
	jsm.mu.RLock()
	defer jsm.mu.RUnlock()

	now := time.Now()
	out := make(map[string]JobStatus, len(jsm.statuses))
	for name, status := range jsm.statuses {
		c := status.clone()
		if status.stalled(now, jsm.stalledThreshold) {
			c.Status = JobStatusStalled
		}
		out[name] = c
	}
	return out
}

func (jsm *JobStatusManager) GetJobsSummary() JobsSummary {
	statuses := jsm.GetAllJobStatuses()

	summary := JobsSummary{
		TotalJobs:      len(statuses),
		LastUpdateTime: time.Now(),
	}
	for _, s := range statuses {
		switch {
		case s.Status == JobStatusRunning:
			summary.RunningJobs++
		case s.Status == JobStatusStalled:
			summary.StalledJobs++
		case s.Status == JobStatusFailed, s.ConsecutiveFailures > 0:
			summary.UnhealthyJobs++
		case s.Status == JobStatusSuccess:
			summary.HealthyJobs++
		}
	}
	return summary
}

func (jsm *JobStatusManager) detectStalledJobs() {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	now := time.Now()
	stalled := 0
	for name, status := range jsm.statuses {
		if status.Status == JobStatusStalled {
			stalled++
			continue
		}
		if !status.stalled(now, jsm.stalledThreshold) {
			continue
		}
		status.Status = JobStatusStalled
		status.UpdatedAt = now
		stalled++

		jsm.logger.Error("[JobStatusManager.detectStalledJobs] job stalled", map[string]string{
			"job_name":    name,
			"running_for": now.Sub(status.LastRunTime).String(),
		})
	}

	jsm.metrics.stalledJobs.Set(float64(stalled))
}

func (jsm *JobStatusManager) cleanupOldStatuses() {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	cutoff := time.Now().Add(-jsm.retentionPeriod)
	for name, status := range jsm.statuses {
		if status.Status != JobStatusRunning && status.UpdatedAt.Before(cutoff) {
			delete(jsm.statuses, name)
			jsm.logger.Info("[JobStatusManager.cleanupOldStatuses] forgot idle job", map[string]string{
				"job_name": name,
			})
		}
	}
}
