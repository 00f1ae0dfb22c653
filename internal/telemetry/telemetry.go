package telemetry

import (
	"context"
	"fmt"

	"github.com/dwarvesf/tradeshield-backend/internal/controller"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

type Telemetry struct {
	db         store.DBRepo
	store      *store.Store
	controller *controller.Controller
	oracle     oracle.IOracle
	listener   oracle.RatesListener
	jobMetrics *monitoring.BackgroundJobMetrics
	logger     *logger.Logger
}

func New(
	db store.DBRepo,
	store *store.Store,
	controller *controller.Controller,
	oracle oracle.IOracle,
	listener oracle.RatesListener,
	jobMetrics *monitoring.BackgroundJobMetrics,
	logger *logger.Logger,
) *Telemetry {
	return &Telemetry{
		db:         db,
		store:      store,
		controller: controller,
		oracle:     oracle,
		listener:   listener,
		jobMetrics: jobMetrics,
		logger:     logger,
	}
}

var _ ITelemetry = (*Telemetry)(nil)

// ReportPendingTransactions publishes how many records are still waiting on
// a user or operator, per kind.
func (t *Telemetry) ReportPendingTransactions(ctx context.Context) error {
	tx := t.db.DB(ctx)

	swaps, err := t.store.SwapTransaction.CountByStatus(tx, model.SwapStatusPending)
	if err != nil {
		t.logger.Error("[ReportPendingTransactions][SwapTransaction.CountByStatus]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	inr, err := t.store.InrTransaction.CountByStatus(tx, model.InrStatusPending)
	if err != nil {
		t.logger.Error("[ReportPendingTransactions][InrTransaction.CountByStatus]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	escrows, err := t.store.EscrowTrade.CountByStatus(tx,
		model.EscrowStatusCreated,
		model.EscrowStatusAccepted,
		model.EscrowStatusFunded,
		model.EscrowStatusPaid,
		model.EscrowStatusDispute,
	)
	if err != nil {
		t.logger.Error("[ReportPendingTransactions][EscrowTrade.CountByStatus]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	if t.jobMetrics != nil {
		t.jobMetrics.SetPendingTransactions("swap", float64(swaps))
		t.jobMetrics.SetPendingTransactions("inr", float64(inr))
		t.jobMetrics.SetPendingTransactions("escrow", float64(escrows))
	}

	t.logger.Debug("[ReportPendingTransactions] Pending transactions", map[string]string{
		"swap":   fmt.Sprintf("%d", swaps),
		"inr":    fmt.Sprintf("%d", inr),
		"escrow": fmt.Sprintf("%d", escrows),
	})
	return nil
}
