package controller

import (
	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/escrow"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/inr"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/swap"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/notifier"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

// Controller groups the business logic of every domain served by the API.
type Controller struct {
	Account account.IController
	Swap    swap.IController
	Inr     inr.IController
	Escrow  escrow.IController
}

func New(
	db store.DBRepo,
	s *store.Store,
	oracle oracle.IOracle,
	tokens *auth.TokenManager,
	publisher notifier.IPublisher,
	metrics *monitoring.BusinessMetricsRecorder,
	logger *logger.Logger,
	appConfig *config.AppConfig,
) *Controller {
	return &Controller{
		Account: account.New(db, s, tokens, logger),
		Swap:    swap.New(db, s, oracle, metrics, logger, appConfig),
		Inr:     inr.New(db, s, oracle, metrics, logger, appConfig),
		Escrow:  escrow.New(db, s, publisher, metrics, logger, appConfig),
	}
}
