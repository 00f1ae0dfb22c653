package oracle_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

type recordingListener struct {
	mu    sync.Mutex
	calls [][]model.MarketRate
}

func (l *recordingListener) BroadcastRates(rates []model.MarketRate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, rates)
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var _ = Describe("RateOracle", func() {
	var (
		ctx    context.Context
		stores *mocks.Stores
		o      oracle.IOracle
		rates  []model.MarketRate
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = mocks.NewStores()
		o = oracle.New(&mocks.Repo{}, stores.Store(), logger.New(environments.Test))
		rates = []model.MarketRate{
			{Symbol: "BTC", PriceUsd: d("84215"), PriceInr: d("7125678")},
			{Symbol: "ETH", PriceUsd: d("1982"), PriceInr: d("167542")},
			{Symbol: "SOL", PriceUsd: d("0"), PriceInr: d("15634")},
		}
	})

	Describe("GetExchangeRate", func() {
		It("returns 1 for the same symbol without touching the store", func() {
			Expect(o.GetExchangeRate(ctx, "btc", "BTC").String()).To(Equal("1"))
			stores.MarketRate.AssertNotCalled(GinkgoT(), "List", mock.Anything)
		})

		It("prices a crypto in INR and USD from its market rate", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			Expect(o.GetExchangeRate(ctx, "BTC", "INR").String()).To(Equal("7125678"))
			Expect(o.GetExchangeRate(ctx, "ETH", "USD").String()).To(Equal("1982"))
		})

		It("inverts the fiat price when buying crypto with fiat", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			want := decimal.NewFromInt(1).DivRound(d("7125678"), 12)
			Expect(o.GetExchangeRate(ctx, "INR", "BTC").Equal(want)).To(BeTrue())
		})

		It("crosses two market rates through USD", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			want := d("84215").DivRound(d("1982"), 12)
			Expect(o.GetExchangeRate(ctx, "BTC", "ETH").Equal(want)).To(BeTrue())
		})

		It("uses the static table when a side has no usable USD price", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			Expect(o.GetExchangeRate(ctx, "BTC", "SOL").String()).To(Equal("4500"))
			Expect(o.GetExchangeRate(ctx, "ETH", "LTC").String()).To(Equal("28"))
		})

		It("falls back to 1 for unknown pairs", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			Expect(o.GetExchangeRate(ctx, "ADA", "MATIC").String()).To(Equal("1"))
		})

		It("keeps resolving when the store fails", func() {
			stores.MarketRate.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

			Expect(o.GetExchangeRate(ctx, "BTC", "ETH").String()).To(Equal("42.3"))
			Expect(o.GetExchangeRate(ctx, "BTC", "INR").String()).To(Equal("1"))
		})

		It("serves repeated lookups from cache", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil).Once()

			first := o.GetExchangeRate(ctx, "BTC", "ETH")
			second := o.GetExchangeRate(ctx, "BTC", "ETH")

			Expect(second.Equal(first)).To(BeTrue())
			stores.MarketRate.AssertNumberOfCalls(GinkgoT(), "List", 1)

			stats := o.GetCacheStatistics()
			Expect(stats.ExchangeRateHits).To(Equal(int64(1)))
			Expect(stats.ExchangeRateMisses).To(Equal(int64(1)))
		})
	})

	Describe("GetMarketRate", func() {
		It("finds a symbol case-insensitively", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			rate, err := o.GetMarketRate(ctx, "eth")
			Expect(err).NotTo(HaveOccurred())
			Expect(rate.PriceInr.String()).To(Equal("167542"))
		})

		It("reports a missing symbol as not found", func() {
			stores.MarketRate.On("List", mock.Anything).Return(rates, nil)

			_, err := o.GetMarketRate(ctx, "DOGE")
			Expect(errors.Is(err, model.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("UpsertMarketRate", func() {
		It("invalidates the cache and pushes the new snapshot", func() {
			listener := &recordingListener{}
			o.SetListener(listener)

			updated := append([]model.MarketRate{}, rates...)
			updated[0].PriceUsd = d("90000")

			stores.MarketRate.On("List", mock.Anything).Return(rates, nil).Once()
			stores.MarketRate.On("Upsert", mock.Anything, mock.AnythingOfType("*model.MarketRate")).
				Return(&updated[0], nil)
			stores.MarketRate.On("List", mock.Anything).Return(updated, nil)

			_, err := o.GetMarketRates(ctx)
			Expect(err).NotTo(HaveOccurred())

			saved, err := o.UpsertMarketRate(ctx, &model.MarketRate{Symbol: "btc", PriceUsd: d("90000")})
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.PriceUsd.String()).To(Equal("90000"))

			Expect(listener.calls).To(HaveLen(1))
			Expect(listener.calls[0][0].PriceUsd.String()).To(Equal("90000"))

			upserted := stores.MarketRate.Calls[1].Arguments.Get(1).(*model.MarketRate)
			Expect(upserted.Symbol).To(Equal("BTC"))
			Expect(upserted.LastUpdated.IsZero()).To(BeFalse())
		})

		It("returns the store error untouched", func() {
			stores.MarketRate.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("deadlock"))

			_, err := o.UpsertMarketRate(ctx, &model.MarketRate{Symbol: "BTC"})
			Expect(err).To(MatchError("deadlock"))
		})
	})

	Describe("EnsureFallbackMarketRates", func() {
		It("counts only the symbols that were missing", func() {
			stores.MarketRate.On("InsertMissing", mock.Anything, mock.MatchedBy(func(r *model.MarketRate) bool {
				return r.Symbol == "BTC" || r.Symbol == "ETH"
			})).Return(false, nil)
			stores.MarketRate.On("InsertMissing", mock.Anything, mock.Anything).Return(true, nil)

			inserted, err := o.EnsureFallbackMarketRates(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(Equal(3))
			stores.MarketRate.AssertNumberOfCalls(GinkgoT(), "InsertMissing", 5)
		})

		It("stops at the first store error", func() {
			stores.MarketRate.On("InsertMissing", mock.Anything, mock.Anything).Return(false, errors.New("read only"))

			_, err := o.EnsureFallbackMarketRates(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("seed market rate BTC"))
		})
	})
})
