package server

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/handler"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/health"
	"github.com/dwarvesf/tradeshield-backend/internal/idempotency"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/notifier"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/telemetry"
	"github.com/dwarvesf/tradeshield-backend/internal/transport/http"
	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/webhook"
)

const shutdownTimeout = 15 * time.Second

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	if appConfig.Auth.JWTSecret == "" {
		if appConfig.Environment != environments.Development {
			logger.Fatal("[Init] JWT_SECRET is required")
		}
		appConfig.Auth.JWTSecret = "tradeshield-dev-secret"
		logger.Warn("[Init] JWT_SECRET not set, using the development secret")
	}

	db := store.NewPostgresStore(appConfig, logger)
	s := store.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)
	apiMetrics := monitoring.NewExternalAPIMetrics()
	apiMetrics.MustRegister(registry)
	jobMetrics := monitoring.NewBackgroundJobMetrics()
	jobMetrics.MustRegister(registry)
	businessMetrics := monitoring.NewBusinessMetricsRecorder(httpMetrics)

	rateOracle := oracle.New(db, s, logger)
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	inserted, err := rateOracle.EnsureFallbackMarketRates(bootstrapCtx)
	cancelBootstrap()
	if err != nil {
		logger.Error("[Init][EnsureFallbackMarketRates]", map[string]string{
			"error": err.Error(),
		})
	} else if inserted > 0 {
		logger.Info("[Init] Seeded fallback market rates", map[string]string{
			"count": fmt.Sprintf("%d", inserted),
		})
	}

	publisher, breakers, err := notifier.New(appConfig, logger, apiMetrics)
	if err != nil {
		logger.Fatal("[Init][notifier.New]", map[string]string{
			"error": err.Error(),
		})
	}

	idemStore, redisClient := newIdempotencyStore(appConfig, logger)

	tokens := auth.NewTokenManager(appConfig.Auth.JWTSecret, appConfig.Auth.TokenTTL)
	ctrl := controller.New(db, s, rateOracle, tokens, publisher, businessMetrics, logger, appConfig)

	jobStatusManager := monitoring.NewJobStatusManager(logger, jobMetrics)

	h := handler.New(appConfig, logger, db, s, ctrl, rateOracle, businessMetrics, registry,
		health.Dependencies{Idempotency: idemStore, Breakers: breakers},
		jobStatusManager,
	)

	t := telemetry.New(db, s, ctrl, rateOracle, h.RatesHub, jobMetrics, logger)
	c := newScheduler(appConfig, logger, t, jobStatusManager)
	c.Start()

	router := http.NewHttpServer(appConfig, logger, h, http.Deps{
		Tokens:      tokens,
		Roles:       currentRole(ctrl.Account),
		Idempotency: idemStore,
		HTTPMetrics: httpMetrics,
	})
	srv := &nethttp.Server{
		Addr:              ":" + appConfig.ApiServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("[Init] HTTP server listening", map[string]string{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("[Init][ListenAndServe]", map[string]string{
				"error": err.Error(),
			})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("[Init] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	<-c.Stop().Done()
	h.RatesHub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Init][Shutdown]", map[string]string{
			"error": err.Error(),
		})
	}
	jobStatusManager.Stop()
	if err := publisher.Close(); err != nil {
		logger.Error("[Init][publisher.Close]", map[string]string{
			"error": err.Error(),
		})
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if err := db.Close(); err != nil {
		logger.Error("[Init][db.Close]", map[string]string{
			"error": err.Error(),
		})
	}
}

// newIdempotencyStore keeps idempotency records in redis when it is
// configured and in process memory otherwise.
// currentRole reads the stored role so a demoted moderator loses access
// before their token expires.
func currentRole(accounts account.IController) auth.RoleLookup {
	return func(ctx context.Context, userID string) (model.UserRole, error) {
		user, err := accounts.Me(ctx, userID)
		if err != nil {
			return "", err
		}
		return user.Role, nil
	}
}

func newIdempotencyStore(appConfig *config.AppConfig, logger *logger.Logger) (idempotency.IStore, *redis.Client) {
	if appConfig.Redis.Addr == "" {
		logger.Warn("[newIdempotencyStore] REDIS_ADDR not set, idempotency keys are kept in memory")
		return idempotency.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Password,
		DB:       appConfig.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("[newIdempotencyStore][Ping]", map[string]string{
			"addr":  appConfig.Redis.Addr,
			"error": err.Error(),
		})
	}
	return idempotency.NewRedisStore(client), client
}

func newScheduler(appConfig *config.AppConfig, logger *logger.Logger, t telemetry.ITelemetry, jsm *monitoring.JobStatusManager) *cron.Cron {
	c := cron.New()
	heartbeat := webhook.New(logger)

	jobs := []struct {
		spec string
		job  *monitoring.InstrumentedJob
	}{
		{
			spec: "@every 1m",
			job: monitoring.NewInstrumentedJob("swap_expiry", t.ExpireSwaps, jsm, logger, time.Minute).
				WithHeartbeat(heartbeat, appConfig.Uptime.SwapExpiryURL),
		},
		{
			spec: "@every 1m",
			job: monitoring.NewInstrumentedJob("inr_expiry", t.ExpireInrTransactions, jsm, logger, time.Minute).
				WithHeartbeat(heartbeat, appConfig.Uptime.InrExpiryURL),
		},
		{
			spec: "@every 1m",
			job: monitoring.NewInstrumentedJob("escrow_expiry", t.ExpireEscrowTrades, jsm, logger, 2*time.Minute).
				WithHeartbeat(heartbeat, appConfig.Uptime.EscrowExpiryURL),
		},
		{
			spec: "@every 30s",
			job:  monitoring.NewInstrumentedJob("market_rate_broadcast", t.BroadcastMarketRates, jsm, logger, 20*time.Second),
		},
		{
			spec: "@every 1m",
			job:  monitoring.NewInstrumentedJob("pending_transactions", t.ReportPendingTransactions, jsm, logger, 30*time.Second),
		},
	}

	for _, j := range jobs {
		if _, err := c.AddFunc(j.spec, j.job.Execute); err != nil {
			logger.Fatal("[newScheduler][AddFunc]", map[string]string{
				"job":   j.job.Name(),
				"error": err.Error(),
			})
		}
	}
	return c
}
