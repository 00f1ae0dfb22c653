package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	_ "github.com/dwarvesf/tradeshield-backend/docs"
	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/handler"
	"github.com/dwarvesf/tradeshield-backend/internal/idempotency"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

func setupCORS(r *gin.Engine, cfg *config.AppConfig) {
	var corsOrigins []string
	for _, o := range strings.Split(cfg.ApiServer.AllowedOrigins, ";") {
		if o = strings.TrimSpace(o); o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	if len(corsOrigins) == 0 {
		return
	}
	r.Use(func(c *gin.Context) {
		cors.New(
			cors.Config{
				AllowOrigins: corsOrigins,
				AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
				AllowHeaders: []string{
					"Origin", "Host", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Accept",
					"X-CSRF-Token", "Authorization", "X-Requested-With", "X-Access-Token", idempotency.HeaderKey,
				},
				ExposeHeaders:    []string{idempotency.HeaderReplay},
				AllowCredentials: true,
			},
		)(c)
	})
}

// Deps carries everything the router needs besides the handlers themselves.
type Deps struct {
	Tokens      *auth.TokenManager
	Roles       auth.RoleLookup
	Idempotency idempotency.IStore
	HTTPMetrics *monitoring.HTTPMetrics
}

func NewHttpServer(appConfig *config.AppConfig, logger *logger.Logger, h *handler.Handler, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		gin.Recovery(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(monitoring.HTTPMetricsMiddleware(deps.HTTPMetrics))
	}
	if appConfig.ApiServer.AllowedOrigins != "" {
		setupCORS(r, appConfig)
	}

	// use ginSwagger middleware to serve the API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", h.HealthHandler.Basic)
	r.GET("/metrics", h.MetricsHandler.Metrics)
	r.GET("/ws/market-rates", h.RatesHub.MarketRates)

	loadApiRoutes(r, h, deps, logger)

	return r
}
