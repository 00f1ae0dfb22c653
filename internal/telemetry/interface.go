package telemetry

import "context"

// ITelemetry holds the periodic jobs run by the server's scheduler.
type ITelemetry interface {
	ExpireSwaps(ctx context.Context) error
	ExpireInrTransactions(ctx context.Context) error
	ExpireEscrowTrades(ctx context.Context) error
	BroadcastMarketRates(ctx context.Context) error
	ReportPendingTransactions(ctx context.Context) error
}
