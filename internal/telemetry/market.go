package telemetry

import (
	"context"
	"fmt"
)

// BroadcastMarketRates pushes the current rate snapshot to websocket
// subscribers so idle clients still see fresh data.
func (t *Telemetry) BroadcastMarketRates(ctx context.Context) error {
	if t.listener == nil {
		return nil
	}

	rates, err := t.oracle.GetMarketRates(ctx)
	if err != nil {
		t.logger.Error("[BroadcastMarketRates][GetMarketRates]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	t.listener.BroadcastRates(rates)
	t.logger.Debug("[BroadcastMarketRates] Snapshot sent", map[string]string{
		"rates": fmt.Sprintf("%d", len(rates)),
	})
	return nil
}
