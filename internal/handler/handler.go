package handler

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwarvesf/tradeshield-backend/internal/controller"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/account"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/admin"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/escrow"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/health"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/inr"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/market"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/metrics"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/swap"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/ws"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

type Handler struct {
	AccountHandler account.IHandler
	AdminHandler   admin.IHandler
	MarketHandler  market.IHandler
	SwapHandler    swap.IHandler
	InrHandler     inr.IHandler
	EscrowHandler  escrow.IHandler
	HealthHandler  health.IHandler
	MetricsHandler metrics.IHandler
	RatesHub       ws.IHandler
}

func New(
	appConfig *config.AppConfig,
	logger *logger.Logger,
	db store.DBRepo,
	s *store.Store,
	ctrl *controller.Controller,
	oracleSvc oracle.IOracle,
	metricsRecorder *monitoring.BusinessMetricsRecorder,
	metricsRegistry *prometheus.Registry,
	healthDeps health.Dependencies,
	jobStatusManager *monitoring.JobStatusManager,
) *Handler {
	hub := ws.New(oracleSvc, logger, allowedOrigins(appConfig))
	oracleSvc.SetListener(hub)

	return &Handler{
		AccountHandler: account.New(ctrl.Account, logger),
		AdminHandler:   admin.New(ctrl.Account, logger),
		MarketHandler:  market.New(db, s.Cryptocurrency, oracleSvc, metricsRecorder, logger),
		SwapHandler:    swap.New(ctrl.Swap, logger),
		InrHandler:     inr.New(ctrl.Inr, logger),
		EscrowHandler:  escrow.New(ctrl.Escrow, logger),
		HealthHandler:  health.New(appConfig, logger, db.DB(context.Background()), healthDeps, jobStatusManager),
		MetricsHandler: metrics.New(metricsRegistry),
		RatesHub:       hub,
	}
}

func allowedOrigins(appConfig *config.AppConfig) []string {
	var origins []string
	for _, o := range strings.Split(appConfig.ApiServer.AllowedOrigins, ";") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
