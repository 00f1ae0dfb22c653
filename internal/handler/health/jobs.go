package health

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
)

// criticalJobs fail the jobs check outright after repeated failures.
var criticalJobs = []string{
	"swap_expiry",
	"inr_expiry",
	"escrow_expiry",
}

const criticalFailureLimit = 2

// Jobs godoc
// @Summary Background jobs health check
// @Description Reports the status of the expiry sweeps and the market rate broadcast
// @Tags health
// @Produce json
// @Success 200 {object} JobsHealthResponse
// @Success 206 {object} JobsHealthResponse
// @Failure 503 {object} JobsHealthResponse
// @Router /health/jobs [get]
func (h *handler) Jobs(c *gin.Context) {
	start := time.Now()
	resp := JobsHealthResponse{
		Status:    statusUnhealthy,
		Timestamp: start,
		Jobs:      map[string]monitoring.JobStatus{},
	}

	if h.jobStatusManager != nil {
		resp.Jobs = h.jobStatusManager.GetAllJobStatuses()
		resp.Summary = h.jobStatusManager.GetJobsSummary()
		resp.Status = jobsVerdict(resp.Jobs, resp.Summary)
	}
	resp.DurationMs = time.Since(start).Milliseconds()

	h.logger.Info("[health][Jobs]", map[string]string{
		"overall_status": resp.Status,
		"total_jobs":     strconv.Itoa(resp.Summary.TotalJobs),
		"unhealthy_jobs": strconv.Itoa(resp.Summary.UnhealthyJobs),
		"stalled_jobs":   strconv.Itoa(resp.Summary.StalledJobs),
	})

	c.JSON(jobsStatusCode(resp.Status), resp)
}

// jobsVerdict is unhealthy on any stalled job or on a critical job failing
// more than criticalFailureLimit times in a row, degraded on any other failure.
func jobsVerdict(jobs map[string]monitoring.JobStatus, summary monitoring.JobsSummary) string {
	if summary.StalledJobs > 0 {
		return statusUnhealthy
	}
	if summary.UnhealthyJobs == 0 {
		return statusHealthy
	}
	for _, name := range criticalJobs {
		job, ok := jobs[name]
		if ok && job.Status == monitoring.JobStatusFailed && job.ConsecutiveFailures > criticalFailureLimit {
			return statusUnhealthy
		}
	}
	return statusDegraded
}

func jobsStatusCode(status string) int {
	switch status {
	case statusUnhealthy:
		return http.StatusServiceUnavailable
	case statusDegraded:
		return http.StatusPartialContent
	default:
		return http.StatusOK
	}
}
