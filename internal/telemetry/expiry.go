package telemetry

import (
	"context"
	"fmt"
)

func (t *Telemetry) ExpireSwaps(ctx context.Context) error {
	n, err := t.controller.Swap.ExpirePending(ctx)
	if err != nil {
		t.logger.Error("[ExpireSwaps][ExpirePending]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	if n > 0 {
		t.logger.Info("[ExpireSwaps] Failed overdue swaps", map[string]string{
			"count": fmt.Sprintf("%d", n),
		})
	}
	return nil
}

func (t *Telemetry) ExpireInrTransactions(ctx context.Context) error {
	n, err := t.controller.Inr.ExpirePending(ctx)
	if err != nil {
		t.logger.Error("[ExpireInrTransactions][ExpirePending]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	if n > 0 {
		t.logger.Info("[ExpireInrTransactions] Failed overdue INR transactions", map[string]string{
			"count": fmt.Sprintf("%d", n),
		})
	}
	return nil
}

// ExpireEscrowTrades cancels unfunded trades past their deadline.
func (t *Telemetry) ExpireEscrowTrades(ctx context.Context) error {
	n, err := t.controller.Escrow.ExpireOverdue(ctx)
	if err != nil {
		t.logger.Error("[ExpireEscrowTrades][ExpireOverdue]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	if n > 0 {
		t.logger.Info("[ExpireEscrowTrades] Cancelled overdue trades", map[string]string{
			"count": fmt.Sprintf("%d", n),
		})
	}
	return nil
}
