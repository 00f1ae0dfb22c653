package oracle

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/consts"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

const (
	exchangeRateTTL = 60 * time.Second
	marketRatesTTL  = 30 * time.Second

	marketRatesKey = "market_rates"
	rateDecimals   = 12
)

type RateOracle struct {
	mux *sync.RWMutex

	db       store.DBRepo
	store    *store.Store
	logger   *logger.Logger
	cache    *cache.Cache
	listener RatesListener

	exchangeHits   atomic.Int64
	exchangeMisses atomic.Int64
	marketHits     atomic.Int64
	marketMisses   atomic.Int64
	lastRefresh    atomic.Int64
}

func New(db store.DBRepo, store *store.Store, logger *logger.Logger) IOracle {
	return &RateOracle{
		mux:    &sync.RWMutex{},
		db:     db,
		store:  store,
		logger: logger,
		cache:  cache.New(exchangeRateTTL, 2*exchangeRateTTL),
	}
}

func (o *RateOracle) SetListener(listener RatesListener) {
	o.mux.Lock()
	defer o.mux.Unlock()
	o.listener = listener
}

func (o *RateOracle) GetExchangeRate(ctx context.Context, from, to string) decimal.Decimal {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return consts.DefaultRate
	}

	key := "rate:" + from + ":" + to
	if cached, found := o.cache.Get(key); found {
		o.exchangeHits.Add(1)
		return cached.(decimal.Decimal)
	}
	o.exchangeMisses.Add(1)

	rate := o.resolveRate(ctx, from, to)
	o.cache.Set(key, rate, exchangeRateTTL)
	return rate
}

func (o *RateOracle) resolveRate(ctx context.Context, from, to string) decimal.Decimal {
	rates, err := o.GetMarketRates(ctx)
	if err != nil {
		o.logger.Error("[GetExchangeRate][GetMarketRates]", map[string]string{
			"error": err.Error(),
			"from":  from,
			"to":    to,
		})
	}
	bySymbol := make(map[string]model.MarketRate, len(rates))
	for _, r := range rates {
		bySymbol[strings.ToUpper(r.Symbol)] = r
	}

	if rate, ok := fiatRate(bySymbol, from, to); ok {
		return rate
	}

	fromRate, fromOk := bySymbol[from]
	toRate, toOk := bySymbol[to]
	if fromOk && toOk && fromRate.PriceUsd.IsPositive() && toRate.PriceUsd.IsPositive() {
		return fromRate.PriceUsd.DivRound(toRate.PriceUsd, rateDecimals)
	}

	if rate, ok := consts.FallbackRates[from][to]; ok {
		return rate
	}

	return consts.DefaultRate
}

// fiatRate prices a crypto against INR or USD, in either direction.
func fiatRate(bySymbol map[string]model.MarketRate, from, to string) (decimal.Decimal, bool) {
	price := func(r model.MarketRate, fiat string) decimal.Decimal {
		if fiat == "INR" {
			return r.PriceInr
		}
		return r.PriceUsd
	}

	if isFiat(to) {
		if r, ok := bySymbol[from]; ok && price(r, to).IsPositive() {
			return price(r, to), true
		}
		return decimal.Zero, false
	}
	if isFiat(from) {
		if r, ok := bySymbol[to]; ok && price(r, from).IsPositive() {
			return decimal.NewFromInt(1).DivRound(price(r, from), rateDecimals), true
		}
	}
	return decimal.Zero, false
}

func isFiat(symbol string) bool {
	return symbol == "INR" || symbol == "USD"
}

func (o *RateOracle) GetMarketRates(ctx context.Context) ([]model.MarketRate, error) {
	if cached, found := o.cache.Get(marketRatesKey); found {
		o.marketHits.Add(1)
		return cached.([]model.MarketRate), nil
	}
	o.marketMisses.Add(1)

	rates, err := o.store.MarketRate.List(o.db.DB(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "list market rates")
	}

	o.cache.Set(marketRatesKey, rates, marketRatesTTL)
	o.lastRefresh.Store(time.Now().Unix())
	return rates, nil
}

func (o *RateOracle) GetMarketRate(ctx context.Context, symbol string) (*model.MarketRate, error) {
	rates, err := o.GetMarketRates(ctx)
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)
	for i := range rates {
		if strings.ToUpper(rates[i].Symbol) == symbol {
			rate := rates[i]
			return &rate, nil
		}
	}
	return nil, errors.Wrapf(model.ErrNotFound, "market rate %s", symbol)
}

func (o *RateOracle) UpsertMarketRate(ctx context.Context, rate *model.MarketRate) (*model.MarketRate, error) {
	rate.Symbol = strings.ToUpper(rate.Symbol)
	if rate.LastUpdated.IsZero() {
		rate.LastUpdated = time.Now()
	}

	saved, err := o.store.MarketRate.Upsert(o.db.DB(ctx), rate)
	if err != nil {
		o.logger.Error("[UpsertMarketRate][Upsert]", map[string]string{
			"error":  err.Error(),
			"symbol": rate.Symbol,
		})
		return nil, err
	}

	o.ClearAllCaches()
	o.notify(ctx)

	return saved, nil
}

func (o *RateOracle) notify(ctx context.Context) {
	o.mux.RLock()
	listener := o.listener
	o.mux.RUnlock()
	if listener == nil {
		return
	}

	rates, err := o.GetMarketRates(ctx)
	if err != nil {
		o.logger.Error("[UpsertMarketRate][notify]", map[string]string{
			"error": err.Error(),
		})
		return
	}
	listener.BroadcastRates(rates)
}

func (o *RateOracle) EnsureFallbackMarketRates(ctx context.Context) (int, error) {
	inserted := 0
	for _, p := range consts.FallbackMarketPrices {
		ok, err := o.store.MarketRate.InsertMissing(o.db.DB(ctx), &model.MarketRate{
			Symbol:      p.Symbol,
			PriceUsd:    p.PriceUsd,
			PriceInr:    p.PriceInr,
			Change24h:   p.Change24h,
			Volume24h:   decimal.Zero,
			LastUpdated: time.Now(),
		})
		if err != nil {
			return inserted, errors.Wrapf(err, "seed market rate %s", p.Symbol)
		}
		if ok {
			inserted++
		}
	}

	if inserted > 0 {
		o.ClearAllCaches()
		o.logger.Info("seeded fallback market rates", map[string]string{
			"count": strconv.Itoa(inserted),
		})
	}
	return inserted, nil
}

func (o *RateOracle) ClearAllCaches() {
	o.cache.Flush()
}

func (o *RateOracle) GetCacheStatistics() *CacheStatistics {
	stats := &CacheStatistics{
		ExchangeRateHits:   o.exchangeHits.Load(),
		ExchangeRateMisses: o.exchangeMisses.Load(),
		MarketRateHits:     o.marketHits.Load(),
		MarketRateMisses:   o.marketMisses.Load(),
	}
	if ts := o.lastRefresh.Load(); ts > 0 {
		stats.LastRefresh = time.Unix(ts, 0)
	}
	return stats
}
