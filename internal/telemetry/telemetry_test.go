package telemetry_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/controller"
	ctrlMocks "github.com/dwarvesf/tradeshield-backend/internal/controller/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	oracleMocks "github.com/dwarvesf/tradeshield-backend/internal/oracle/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/store/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/telemetry"
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

func pendingGauge(registry *prometheus.Registry, kind string) float64 {
	families, err := registry.Gather()
	Expect(err).NotTo(HaveOccurred())
	for _, family := range families {
		if family.GetName() != "tradeshield_pending_transactions_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "transaction_type" && label.GetValue() == kind {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return -1
}

var _ = Describe("Telemetry", func() {
	var (
		ctx       context.Context
		stores    *mocks.Stores
		swapCtrl  *ctrlMocks.Swap
		inrCtrl   *ctrlMocks.Inr
		escrowCtl *ctrlMocks.Escrow
		o         *oracleMocks.Oracle
		listener  *recordingListener
		registry  *prometheus.Registry
		t         *telemetry.Telemetry
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = mocks.NewStores()
		swapCtrl = new(ctrlMocks.Swap)
		inrCtrl = new(ctrlMocks.Inr)
		escrowCtl = new(ctrlMocks.Escrow)
		o = new(oracleMocks.Oracle)
		listener = &recordingListener{}

		jobMetrics := monitoring.NewBackgroundJobMetrics()
		registry = prometheus.NewRegistry()
		jobMetrics.MustRegister(registry)

		t = telemetry.New(
			&mocks.Repo{},
			stores.Store(),
			&controller.Controller{Swap: swapCtrl, Inr: inrCtrl, Escrow: escrowCtl},
			o,
			listener,
			jobMetrics,
			logger.New(environments.Test),
		)
	})

	Describe("expiry sweeps", func() {
		It("expires pending swaps through the swap controller", func() {
			swapCtrl.On("ExpirePending", ctx).Return(int64(3), nil).Once()

			Expect(t.ExpireSwaps(ctx)).To(Succeed())
			swapCtrl.AssertExpectations(GinkgoT())
		})

		It("returns the swap sweep failure so the job is marked failed", func() {
			swapCtrl.On("ExpirePending", ctx).Return(int64(0), errors.New("deadlock detected"))

			Expect(t.ExpireSwaps(ctx)).To(MatchError("deadlock detected"))
		})

		It("expires pending INR transactions", func() {
			inrCtrl.On("ExpirePending", ctx).Return(int64(0), nil).Once()

			Expect(t.ExpireInrTransactions(ctx)).To(Succeed())
			inrCtrl.AssertExpectations(GinkgoT())
		})

		It("cancels overdue escrow trades", func() {
			escrowCtl.On("ExpireOverdue", ctx).Return(2, nil).Once()

			Expect(t.ExpireEscrowTrades(ctx)).To(Succeed())
			escrowCtl.AssertExpectations(GinkgoT())
		})

		It("surfaces an escrow listing failure", func() {
			escrowCtl.On("ExpireOverdue", ctx).Return(0, errors.New("list expired escrow trades: timeout"))

			Expect(t.ExpireEscrowTrades(ctx)).To(HaveOccurred())
		})
	})

	Describe("BroadcastMarketRates", func() {
		It("pushes the stored snapshot to the listener", func() {
			rates := []model.MarketRate{{Symbol: "BTC", PriceUsd: decimal.RequireFromString("84215")}}
			o.On("GetMarketRates", ctx).Return(rates, nil)

			Expect(t.BroadcastMarketRates(ctx)).To(Succeed())
			Expect(listener.calls).To(HaveLen(1))
			Expect(listener.calls[0][0].Symbol).To(Equal("BTC"))
		})

		It("does not push anything when the snapshot cannot be read", func() {
			o.On("GetMarketRates", ctx).Return(nil, errors.New("connection refused"))

			Expect(t.BroadcastMarketRates(ctx)).To(HaveOccurred())
			Expect(listener.calls).To(BeEmpty())
		})

		It("is a no-op without a listener", func() {
			silent := telemetry.New(&mocks.Repo{}, stores.Store(), &controller.Controller{}, o, nil, nil, logger.New(environments.Test))

			Expect(silent.BroadcastMarketRates(ctx)).To(Succeed())
			o.AssertNotCalled(GinkgoT(), "GetMarketRates", mock.Anything)
		})
	})

	Describe("ReportPendingTransactions", func() {
		It("sets one gauge per transaction kind", func() {
			stores.SwapTransaction.On("CountByStatus", mock.Anything, model.SwapStatusPending).Return(int64(4), nil)
			stores.InrTransaction.On("CountByStatus", mock.Anything, model.InrStatusPending).Return(int64(1), nil)
			stores.EscrowTrade.On("CountByStatus", mock.Anything, []model.EscrowStatus{
				model.EscrowStatusCreated,
				model.EscrowStatusAccepted,
				model.EscrowStatusFunded,
				model.EscrowStatusPaid,
				model.EscrowStatusDispute,
			}).Return(int64(7), nil)

			Expect(t.ReportPendingTransactions(ctx)).To(Succeed())
			Expect(pendingGauge(registry, "swap")).To(Equal(4.0))
			Expect(pendingGauge(registry, "inr")).To(Equal(1.0))
			Expect(pendingGauge(registry, "escrow")).To(Equal(7.0))
		})

		It("stops at the first failing count", func() {
			stores.SwapTransaction.On("CountByStatus", mock.Anything, model.SwapStatusPending).Return(int64(0), errors.New("too many connections"))

			Expect(t.ReportPendingTransactions(ctx)).To(HaveOccurred())
			stores.InrTransaction.AssertNotCalled(GinkgoT(), "CountByStatus", mock.Anything, mock.Anything)
		})
	})
})
