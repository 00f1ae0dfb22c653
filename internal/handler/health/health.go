package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

type handler struct {
	config           *config.AppConfig
	logger           *logger.Logger
	db               *gorm.DB
	deps             Dependencies
	jobStatusManager *monitoring.JobStatusManager
}

func New(config *config.AppConfig, logger *logger.Logger, db *gorm.DB, deps Dependencies, jobStatusManager *monitoring.JobStatusManager) IHandler {
	return &handler{
		config:           config,
		logger:           logger,
		db:               db,
		deps:             deps,
		jobStatusManager: jobStatusManager,
	}
}

// Basic godoc
// @Summary Basic health check
// @Description Returns basic system availability status
// @Tags health
// @Produce json
// @Success 200 {object} BasicHealthResponse
// @Router /healthz [get]
func (h *handler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, BasicHealthResponse{Message: "ok"})
}

// Database godoc
// @Summary Database health check
// @Description Pings postgres and reports connection pool usage
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/db [get]
func (h *handler) Database(c *gin.Context) {
	start := time.Now()
	checks := map[string]HealthCheck{
		"database": h.checkDatabase(requestContext(c)),
	}
	h.respond(c, "Database", start, checks)
}

// External godoc
// @Summary External dependencies health check
// @Description Checks the idempotency store and the state of every outbound circuit breaker
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/external [get]
func (h *handler) External(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(requestContext(c), monitoring.DefaultTimeoutConfig.RequestTimeout)
	defer cancel()

	checks := make(map[string]HealthCheck, len(h.deps.Breakers)+1)
	for _, cb := range h.deps.Breakers {
		checks[cb.Name()] = checkBreaker(cb)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		check := h.checkIdempotencyStore(ctx)
		mu.Lock()
		checks["idempotency_store"] = check
		mu.Unlock()
	}()
	wg.Wait()

	h.respond(c, "External", start, checks)
}

// respond reports unhealthy with 503 when any single check is not healthy.
func (h *handler) respond(c *gin.Context, endpoint string, start time.Time, checks map[string]HealthCheck) {
	resp := HealthResponse{
		Status:     rollup(checks),
		Timestamp:  start,
		Checks:     checks,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if resp.Status == statusHealthy {
		c.JSON(http.StatusOK, resp)
		return
	}

	if h.logger != nil {
		h.logger.Warn(fmt.Sprintf("[health][%s] unhealthy", endpoint), map[string]string{
			"duration": fmt.Sprintf("%dms", resp.DurationMs),
		})
	}
	c.JSON(http.StatusServiceUnavailable, resp)
}

func rollup(checks map[string]HealthCheck) string {
	for _, check := range checks {
		if check.Status != statusHealthy {
			return statusUnhealthy
		}
	}
	return statusHealthy
}

func unhealthy(start time.Time, msg string) HealthCheck {
	return HealthCheck{
		Status:  statusUnhealthy,
		Error:   msg,
		Latency: time.Since(start).Milliseconds(),
	}
}

// pingError collapses a deadline into "timeout".
func pingError(ctx context.Context, err error) string {
	if ctx.Err() == context.DeadlineExceeded {
		return "timeout"
	}
	return err.Error()
}

func (h *handler) checkDatabase(ctx context.Context) HealthCheck {
	start := time.Now()

	if h.db == nil {
		return unhealthy(start, "database connection not available")
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return unhealthy(start, fmt.Sprintf("failed to get underlying database: %v", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, monitoring.DefaultTimeoutConfig.HealthCheckTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		return unhealthy(start, pingError(pingCtx, err))
	}

	stats := sqlDB.Stats()
	return HealthCheck{
		Status:  statusHealthy,
		Latency: time.Since(start).Milliseconds(),
		Metadata: map[string]interface{}{
			"driver": "postgres",
			"connection_pool": map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"max_open":         stats.MaxOpenConnections,
			},
		},
	}
}

func (h *handler) checkIdempotencyStore(ctx context.Context) HealthCheck {
	start := time.Now()

	if h.deps.Idempotency == nil {
		return unhealthy(start, "idempotency store not available")
	}

	pingCtx, cancel := context.WithTimeout(ctx, monitoring.DefaultTimeoutConfig.HealthCheckTimeout)
	defer cancel()

	check := HealthCheck{Status: statusHealthy}
	if err := h.deps.Idempotency.Ping(pingCtx); err != nil {
		check = unhealthy(start, pingError(pingCtx, err))
	}

	backend := "memory"
	if h.config != nil && h.config.Redis.Addr != "" {
		backend = "redis"
	}
	check.Metadata = map[string]interface{}{"backend": backend}
	check.Latency = time.Since(start).Milliseconds()
	return check
}

// checkBreaker reports an open breaker as unhealthy. Half-open is still
// serving trial requests and counts as healthy.
func checkBreaker(cb *monitoring.CircuitBreaker) HealthCheck {
	state := cb.State()
	check := HealthCheck{
		Status:   statusHealthy,
		Metadata: map[string]interface{}{"circuit_state": state.String()},
	}
	if state == gobreaker.StateOpen {
		check.Status = statusUnhealthy
		check.Error = "circuit open"
	}
	return check
}

func requestContext(c *gin.Context) context.Context {
	if c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
