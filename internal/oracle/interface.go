package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type CacheStatistics struct {
	ExchangeRateHits   int64     `json:"exchangeRateHits"`
	ExchangeRateMisses int64     `json:"exchangeRateMisses"`
	MarketRateHits     int64     `json:"marketRateHits"`
	MarketRateMisses   int64     `json:"marketRateMisses"`
	LastRefresh        time.Time `json:"lastRefresh"`
}

// RatesListener is told about every market-rate snapshot change.
type RatesListener interface {
	BroadcastRates(rates []model.MarketRate)
}

type IOracle interface {
	// GetExchangeRate returns how many units of to one unit of from buys.
	// It never fails: missing data falls back to the static tables, then to 1.
	GetExchangeRate(ctx context.Context, from, to string) decimal.Decimal

	// GetMarketRates returns every stored market rate, newest first
	GetMarketRates(ctx context.Context) ([]model.MarketRate, error)

	// GetMarketRate returns the stored rate of one symbol
	GetMarketRate(ctx context.Context, symbol string) (*model.MarketRate, error)

	// UpsertMarketRate stores a rate, drops cached values and notifies the listener
	UpsertMarketRate(ctx context.Context, rate *model.MarketRate) (*model.MarketRate, error)

	// EnsureFallbackMarketRates inserts the static price of every symbol that has no row yet
	EnsureFallbackMarketRates(ctx context.Context) (int, error)

	SetListener(listener RatesListener)
	ClearAllCaches()
	GetCacheStatistics() *CacheStatistics
}
