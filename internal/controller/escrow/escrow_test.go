package escrow

import (
	"context"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/notifier"
	"github.com/dwarvesf/tradeshield-backend/internal/store/escrowtrade"
	"github.com/dwarvesf/tradeshield-backend/internal/store/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

const (
	sellerID    = "seller-1"
	buyerID     = "buyer-1"
	strangerID  = "stranger-1"
	moderatorID = "mod-1"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...notifier.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func strPtr(s string) *string { return &s }

// sellTrade returns a sell trade created by sellerID, accepted by buyerID
// when status is past created.
func sellTrade(status model.EscrowStatus) *model.EscrowTrade {
	trade := &model.EscrowTrade{
		ID:             7,
		CreatorID:      sellerID,
		Type:           model.TradeTypeSell,
		Cryptocurrency: "BTC",
		CryptoAmount:   decimal.RequireFromString("0.5"),
		InrAmount:      decimal.RequireFromString("3500000"),
		PaymentMethod:  model.EscrowPaymentUPI,
		Status:         status,
	}
	if status != model.EscrowStatusCreated {
		trade.CounterpartyID = strPtr(buyerID)
	}
	return trade
}

var _ = Describe("Escrow controller", func() {
	var (
		ctx       context.Context
		stores    *mocks.Stores
		repo      *mocks.Repo
		publisher *recordingPublisher
		appConfig *config.AppConfig
		ctrl      *controller
		now       time.Time

		seller    = Actor{UserID: sellerID, Role: model.UserRoleUser}
		buyer     = Actor{UserID: buyerID, Role: model.UserRoleUser}
		stranger  = Actor{UserID: strangerID, Role: model.UserRoleUser}
		moderator = Actor{UserID: moderatorID, Role: model.UserRoleModerator}
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = mocks.NewStores()
		repo = &mocks.Repo{}
		publisher = &recordingPublisher{}
		now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		appConfig = &config.AppConfig{Trading: config.TradingConfig{EscrowExpiry: 24 * time.Hour}}

		ctrl = New(repo, stores.Store(), publisher,
			monitoring.NewBusinessMetricsRecorder(monitoring.NewHTTPMetrics()),
			logger.New(environments.Test), appConfig).(*controller)
		ctrl.now = func() time.Time { return now }
	})

	expectLocked := func(trade *model.EscrowTrade) {
		stores.EscrowTrade.On("GetByIDForUpdate", mock.Anything, trade.ID).Return(trade, nil)
	}

	expectTransition := func(id int64, from model.EscrowStatus) *mock.Call {
		return stores.EscrowTrade.On("Transition", mock.Anything, id, from, mock.Anything).Return(nil)
	}

	expectEvent := func(action model.EscrowAction) {
		stores.EscrowEvent.On("Append", mock.Anything, mock.MatchedBy(func(e *model.EscrowEvent) bool {
			return e.Action == action
		})).Return(&model.EscrowEvent{}, nil)
	}

	transitionFields := func() map[string]interface{} {
		for _, call := range stores.EscrowTrade.Calls {
			if call.Method == "Transition" {
				return call.Arguments.Get(3).(map[string]interface{})
			}
		}
		return nil
	}

	Describe("Create", func() {
		var input CreateInput

		BeforeEach(func() {
			input = CreateInput{
				Type:           model.TradeTypeSell,
				Cryptocurrency: "btc",
				CryptoAmount:   decimal.RequireFromString("0.123456789"),
				InrAmount:      decimal.RequireFromString("875000.555"),
				PaymentMethod:  model.EscrowPaymentUPI,
			}
			stores.Cryptocurrency.On("GetBySymbol", mock.Anything, "BTC").
				Return(&model.Cryptocurrency{Symbol: "BTC", IsActive: true}, nil).Maybe()
		})

		It("creates the trade with an escrow address and audit event", func() {
			var created *model.EscrowTrade
			stores.EscrowTrade.On("Create", mock.Anything, mock.AnythingOfType("*model.EscrowTrade")).
				Run(func(args mock.Arguments) {
					created = args.Get(1).(*model.EscrowTrade)
					created.ID = 42
				}).
				Return(&model.EscrowTrade{ID: 42}, nil)
			stores.EscrowTrade.On("SetEscrowAddress", mock.Anything, int64(42), mock.Anything).Return(nil)
			expectEvent(model.EscrowActionCreated)

			_, err := ctrl.Create(ctx, seller, input)

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Cryptocurrency).To(Equal("BTC"))
			Expect(created.CryptoAmount.String()).To(Equal("0.12345679"))
			Expect(created.InrAmount.String()).To(Equal("875000.56"))
			Expect(created.Status).To(Equal(model.EscrowStatusCreated))
			Expect(*created.ExpiresAt).To(Equal(now.Add(24 * time.Hour)))
			Expect(created.CounterpartyID).To(BeNil())
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowCreated}))
			Expect(repo.TxCalls).To(Equal(1))
		})

		It("rejects the creator as counterparty", func() {
			input.CounterpartyID = sellerID

			_, err := ctrl.Create(ctx, seller, input)

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
			Expect(repo.TxCalls).To(BeZero())
		})

		It("rejects a non-positive amount", func() {
			input.InrAmount = decimal.Zero

			_, err := ctrl.Create(ctx, seller, input)

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
		})

		It("rejects amounts the ledger columns cannot hold", func() {
			input.InrAmount = decimal.RequireFromString("9999999999.995")

			_, err := ctrl.Create(ctx, seller, input)

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
			Expect(repo.TxCalls).To(BeZero())
		})

		It("rejects an unknown counterparty", func() {
			input.CounterpartyID = "ghost"
			stores.User.On("GetByID", mock.Anything, "ghost").Return(nil, errors.Wrap(model.ErrNotFound, "user ghost"))

			_, err := ctrl.Create(ctx, seller, input)

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
		})

		It("rejects an inactive currency", func() {
			input.Cryptocurrency = "ADA"
			stores.Cryptocurrency.On("GetBySymbol", mock.Anything, "ADA").Return(&model.Cryptocurrency{Symbol: "ADA"}, nil)

			_, err := ctrl.Create(ctx, seller, input)

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
		})

		It("requires verified KYC when enforcement is on", func() {
			appConfig.Trading.RequireKYC = true
			stores.User.On("GetByID", mock.Anything, sellerID).Return(&model.User{ID: sellerID, KycStatus: model.KYCStatusPending}, nil)

			_, err := ctrl.Create(ctx, seller, input)

			Expect(errors.Is(err, model.ErrKYCRequired)).To(BeTrue())
			Expect(publisher.types()).To(BeEmpty())
		})
	})

	Describe("Create escrow address", func() {
		It("derives the address from the trade id and creation time", func() {
			stores.Cryptocurrency.On("GetBySymbol", mock.Anything, "ETH").Return(&model.Cryptocurrency{Symbol: "ETH", IsActive: true}, nil)
			stores.EscrowTrade.On("Create", mock.Anything, mock.AnythingOfType("*model.EscrowTrade")).
				Run(func(args mock.Arguments) { args.Get(1).(*model.EscrowTrade).ID = 42 }).
				Return(&model.EscrowTrade{ID: 42, Status: model.EscrowStatusCreated}, nil)
			stores.EscrowTrade.On("SetEscrowAddress", mock.Anything, int64(42), "escrow_42_1714564800000").Return(nil)
			expectEvent(model.EscrowActionCreated)

			trade, err := ctrl.Create(ctx, seller, CreateInput{
				Type:           model.TradeTypeBuy,
				Cryptocurrency: "ETH",
				CryptoAmount:   decimal.RequireFromString("1"),
				InrAmount:      decimal.RequireFromString("160000"),
				PaymentMethod:  model.EscrowPaymentIMPS,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(trade.EscrowAddress).To(Equal("escrow_42_1714564800000"))
			stores.EscrowTrade.AssertExpectations(GinkgoT())
		})
	})

	Describe("Accept", func() {
		It("lets any other user take an open trade", func() {
			trade := sellTrade(model.EscrowStatusCreated)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusCreated)
			expectEvent(model.EscrowActionAccepted)

			got, err := ctrl.Accept(ctx, buyer, trade.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusAccepted))
			Expect(*got.CounterpartyID).To(Equal(buyerID))
			Expect(transitionFields()).To(HaveKeyWithValue("counterparty_id", buyerID))
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowAccepted}))
		})

		It("forbids the creator", func() {
			expectLocked(sellTrade(model.EscrowStatusCreated))

			_, err := ctrl.Accept(ctx, seller, 7)

			Expect(errors.Is(err, model.ErrForbidden)).To(BeTrue())
		})

		It("hides a trade addressed to someone else", func() {
			trade := sellTrade(model.EscrowStatusCreated)
			trade.CounterpartyID = strPtr(buyerID)
			expectLocked(trade)

			_, err := ctrl.Accept(ctx, stranger, trade.ID)

			Expect(errors.Is(err, model.ErrNotFound)).To(BeTrue())
		})

		It("conflicts once the trade was accepted", func() {
			expectLocked(sellTrade(model.EscrowStatusAccepted))

			_, err := ctrl.Accept(ctx, buyer, 7)

			Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
			stores.EscrowTrade.AssertNotCalled(GinkgoT(), "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	})

	Describe("Fund", func() {
		It("moves an accepted trade to funded when the seller funds", func() {
			trade := sellTrade(model.EscrowStatusAccepted)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusAccepted)
			expectEvent(model.EscrowActionFunded)

			got, err := ctrl.Fund(ctx, seller, trade.ID, " 0xabc ")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusFunded))
			Expect(got.FundedAt).To(Equal(&now))
			Expect(got.FundingTxHash).To(Equal("0xabc"))
		})

		It("forbids the buyer", func() {
			expectLocked(sellTrade(model.EscrowStatusAccepted))

			_, err := ctrl.Fund(ctx, buyer, 7, "")

			Expect(errors.Is(err, model.ErrForbidden)).To(BeTrue())
		})

		It("treats the counterparty of a buy trade as seller", func() {
			trade := sellTrade(model.EscrowStatusAccepted)
			trade.Type = model.TradeTypeBuy
			trade.CreatorID = buyerID
			trade.CounterpartyID = strPtr(sellerID)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusAccepted)
			expectEvent(model.EscrowActionFunded)

			got, err := ctrl.Fund(ctx, seller, trade.ID, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusFunded))
		})

		It("hides the trade from strangers", func() {
			expectLocked(sellTrade(model.EscrowStatusAccepted))

			_, err := ctrl.Fund(ctx, stranger, 7, "")

			Expect(errors.Is(err, model.ErrNotFound)).To(BeTrue())
		})

		It("conflicts outside the accepted state", func() {
			expectLocked(sellTrade(model.EscrowStatusCreated))

			_, err := ctrl.Fund(ctx, seller, 7, "")

			Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
		})
	})

	Describe("ConfirmPayment", func() {
		It("marks a funded trade paid on the buyer's confirmation", func() {
			trade := sellTrade(model.EscrowStatusFunded)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusFunded)
			expectEvent(model.EscrowActionPaid)

			got, err := ctrl.ConfirmPayment(ctx, buyer, trade.ID, "utr-123")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusPaid))
			Expect(got.CounterpartyConfirmed).To(BeTrue())
			Expect(got.CreatorConfirmed).To(BeFalse())
			Expect(transitionFields()).To(HaveKeyWithValue("payment_proof", "utr-123"))
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowPaid}))
		})

		It("is a no-op when the buyer confirms again", func() {
			trade := sellTrade(model.EscrowStatusPaid)
			trade.CounterpartyConfirmed = true
			expectLocked(trade)

			got, err := ctrl.ConfirmPayment(ctx, buyer, trade.ID, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusPaid))
			stores.EscrowTrade.AssertNotCalled(GinkgoT(), "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			stores.EscrowEvent.AssertNotCalled(GinkgoT(), "Append", mock.Anything, mock.Anything)
			Expect(publisher.types()).To(BeEmpty())
		})

		It("does not let the seller confirm before the buyer", func() {
			expectLocked(sellTrade(model.EscrowStatusFunded))

			_, err := ctrl.ConfirmPayment(ctx, seller, 7, "")

			Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
		})

		It("completes the trade and pays the buyer on the seller's confirmation", func() {
			trade := sellTrade(model.EscrowStatusPaid)
			trade.CounterpartyConfirmed = true
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusPaid)
			expectEvent(model.EscrowActionCompleted)
			stores.UserWallet.On("GetForUpdate", mock.Anything, buyerID, "BTC").Return(nil, errors.Wrap(model.ErrNotFound, "wallet")).Once()
			stores.UserWallet.On("CreateIfMissing", mock.Anything, mock.MatchedBy(func(w *model.UserWallet) bool {
				return w.UserID == buyerID && w.Cryptocurrency == "BTC" && strings.HasPrefix(w.Address, "ts_btc_")
			})).Return(true, nil)
			stores.UserWallet.On("GetForUpdate", mock.Anything, buyerID, "BTC").Return(&model.UserWallet{ID: 99}, nil).Once()
			stores.UserWallet.On("Credit", mock.Anything, int64(99), decimal.RequireFromString("0.5")).Return(nil)
			stores.EscrowMessage.On("Create", mock.Anything, mock.MatchedBy(func(m *model.EscrowMessage) bool {
				return m.SenderID == "system" && m.Message == completedMessage && m.TradeID == 7
			})).Return(&model.EscrowMessage{}, nil)

			got, err := ctrl.ConfirmPayment(ctx, seller, trade.ID, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusCompleted))
			Expect(got.BothConfirmed()).To(BeTrue())
			Expect(got.CompletedAt).To(Equal(&now))
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowCompleted}))
			stores.UserWallet.AssertExpectations(GinkgoT())
			stores.EscrowMessage.AssertExpectations(GinkgoT())
		})

		It("credits the wallet a concurrent settlement opened first", func() {
			trade := sellTrade(model.EscrowStatusPaid)
			trade.CounterpartyConfirmed = true
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusPaid)
			expectEvent(model.EscrowActionCompleted)
			stores.UserWallet.On("GetForUpdate", mock.Anything, buyerID, "BTC").Return(nil, errors.Wrap(model.ErrNotFound, "wallet")).Once()
			stores.UserWallet.On("CreateIfMissing", mock.Anything, mock.AnythingOfType("*model.UserWallet")).Return(false, nil)
			stores.UserWallet.On("GetForUpdate", mock.Anything, buyerID, "BTC").Return(&model.UserWallet{ID: 42}, nil).Once()
			stores.UserWallet.On("Credit", mock.Anything, int64(42), decimal.RequireFromString("0.5")).Return(nil)
			stores.EscrowMessage.On("Create", mock.Anything, mock.Anything).Return(&model.EscrowMessage{}, nil)

			got, err := ctrl.ConfirmPayment(ctx, seller, trade.ID, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusCompleted))
			stores.UserWallet.AssertExpectations(GinkgoT())
			stores.UserWallet.AssertNotCalled(GinkgoT(), "Create", mock.Anything, mock.Anything)
		})

		It("rolls back and publishes nothing when the wallet credit fails", func() {
			trade := sellTrade(model.EscrowStatusPaid)
			trade.CounterpartyConfirmed = true
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusPaid)
			stores.UserWallet.On("GetForUpdate", mock.Anything, buyerID, "BTC").Return(&model.UserWallet{ID: 5}, nil)
			stores.UserWallet.On("Credit", mock.Anything, int64(5), mock.Anything).Return(errors.New("deadlock detected"))

			_, err := ctrl.ConfirmPayment(ctx, seller, trade.ID, "")

			Expect(err).To(MatchError(ContainSubstring("deadlock detected")))
			Expect(publisher.types()).To(BeEmpty())
			stores.EscrowEvent.AssertNotCalled(GinkgoT(), "Append", mock.Anything, mock.Anything)
		})

		It("surfaces a lost race on the conditional update", func() {
			trade := sellTrade(model.EscrowStatusFunded)
			expectLocked(trade)
			stores.EscrowTrade.On("Transition", mock.Anything, trade.ID, model.EscrowStatusFunded, mock.Anything).
				Return(errors.Wrap(model.ErrInvalidTransition, "escrow trade 7 is no longer funded"))

			_, err := ctrl.ConfirmPayment(ctx, buyer, trade.ID, "")

			Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
		})
	})

	Describe("Dispute", func() {
		DescribeTable("opens a dispute from an active state",
			func(status model.EscrowStatus, actor Actor) {
				trade := sellTrade(status)
				expectLocked(trade)
				expectTransition(trade.ID, status)
				expectEvent(model.EscrowActionDisputed)
				stores.EscrowMessage.On("Create", mock.Anything, mock.MatchedBy(func(m *model.EscrowMessage) bool {
					return m.SenderID == actor.UserID && m.Message == "Dispute initiated: seller unresponsive"
				})).Return(&model.EscrowMessage{}, nil)

				got, err := ctrl.Dispute(ctx, actor, trade.ID, "  seller unresponsive ")

				Expect(err).NotTo(HaveOccurred())
				Expect(got.Status).To(Equal(model.EscrowStatusDispute))
				Expect(got.DisputeReason).To(Equal("seller unresponsive"))
			},
			Entry("accepted by buyer", model.EscrowStatusAccepted, buyer),
			Entry("funded by seller", model.EscrowStatusFunded, seller),
			Entry("paid by buyer", model.EscrowStatusPaid, buyer),
		)

		DescribeTable("conflicts in other states",
			func(status model.EscrowStatus) {
				trade := sellTrade(status)
				trade.CounterpartyID = strPtr(buyerID)
				expectLocked(trade)

				_, err := ctrl.Dispute(ctx, buyer, trade.ID, "reason")

				Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
			},
			Entry("created", model.EscrowStatusCreated),
			Entry("dispute", model.EscrowStatusDispute),
			Entry("completed", model.EscrowStatusCompleted),
			Entry("cancelled", model.EscrowStatusCancelled),
		)

		It("requires a reason", func() {
			_, err := ctrl.Dispute(ctx, buyer, 7, "   ")

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
			Expect(repo.TxCalls).To(BeZero())
		})
	})

	Describe("Resolve", func() {
		It("is reserved for moderators", func() {
			_, err := ctrl.Resolve(ctx, buyer, 7, ResolutionRelease, "")

			Expect(errors.Is(err, model.ErrForbidden)).To(BeTrue())
		})

		It("rejects a moderator who is a party", func() {
			expectLocked(sellTrade(model.EscrowStatusDispute))

			_, err := ctrl.Resolve(ctx, Actor{UserID: buyerID, Role: model.UserRoleAdmin}, 7, ResolutionRelease, "")

			Expect(errors.Is(err, model.ErrForbidden)).To(BeTrue())
		})

		It("releases the crypto to the buyer", func() {
			trade := sellTrade(model.EscrowStatusDispute)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusDispute)
			expectEvent(model.EscrowActionResolved)
			stores.UserWallet.On("GetForUpdate", mock.Anything, buyerID, "BTC").Return(&model.UserWallet{ID: 3}, nil)
			stores.UserWallet.On("Credit", mock.Anything, int64(3), decimal.RequireFromString("0.5")).Return(nil)
			var written []*model.EscrowMessage
			stores.EscrowMessage.On("Create", mock.Anything, mock.AnythingOfType("*model.EscrowMessage")).
				Run(func(args mock.Arguments) { written = append(written, args.Get(1).(*model.EscrowMessage)) }).
				Return(&model.EscrowMessage{}, nil)

			got, err := ctrl.Resolve(ctx, moderator, trade.ID, ResolutionRelease, "payment verified")

			Expect(err).NotTo(HaveOccurred())
			Expect(written).To(HaveLen(2))
			Expect(written[0].SenderID).To(Equal("system"))
			Expect(written[0].Message).To(Equal(completedMessage))
			Expect(written[1].SenderID).To(Equal(moderatorID))
			Expect(written[1].Message).To(Equal("Dispute resolved: release. payment verified"))
			Expect(written[1].TradeID).To(Equal(trade.ID))
			Expect(got.Status).To(Equal(model.EscrowStatusCompleted))
			Expect(*got.ModeratorID).To(Equal(moderatorID))
			Expect(got.ModeratorNotes).To(Equal("payment verified"))
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowCompleted}))
			stores.UserWallet.AssertExpectations(GinkgoT())
		})

		It("refunds a funded trade to the seller", func() {
			trade := sellTrade(model.EscrowStatusDispute)
			fundedAt := now.Add(-time.Hour)
			trade.FundedAt = &fundedAt
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusDispute)
			expectEvent(model.EscrowActionResolved)
			stores.UserWallet.On("GetForUpdate", mock.Anything, sellerID, "BTC").Return(&model.UserWallet{ID: 4}, nil)
			stores.UserWallet.On("Credit", mock.Anything, int64(4), decimal.RequireFromString("0.5")).Return(nil)
			stores.EscrowMessage.On("Create", mock.Anything, mock.Anything).Return(&model.EscrowMessage{}, nil)

			got, err := ctrl.Resolve(ctx, moderator, trade.ID, ResolutionRefund, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusCancelled))
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowCancelled}))
			stores.UserWallet.AssertExpectations(GinkgoT())
		})

		It("refunds nothing when the trade was never funded", func() {
			trade := sellTrade(model.EscrowStatusDispute)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusDispute)
			expectEvent(model.EscrowActionResolved)
			stores.EscrowMessage.On("Create", mock.Anything, mock.MatchedBy(func(m *model.EscrowMessage) bool {
				return m.Message == "Dispute resolved: refund."
			})).Return(&model.EscrowMessage{}, nil)

			got, err := ctrl.Resolve(ctx, moderator, trade.ID, ResolutionRefund, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusCancelled))
			stores.UserWallet.AssertNotCalled(GinkgoT(), "Credit", mock.Anything, mock.Anything, mock.Anything)
		})

		It("conflicts when there is no dispute", func() {
			expectLocked(sellTrade(model.EscrowStatusPaid))

			_, err := ctrl.Resolve(ctx, moderator, 7, ResolutionRelease, "")

			Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
		})
	})

	Describe("Cancel", func() {
		It("lets the creator cancel an unaccepted trade", func() {
			trade := sellTrade(model.EscrowStatusCreated)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusCreated)
			expectEvent(model.EscrowActionCancelled)

			got, err := ctrl.Cancel(ctx, seller, trade.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusCancelled))
		})

		It("forbids the named counterparty before acceptance", func() {
			trade := sellTrade(model.EscrowStatusCreated)
			trade.CounterpartyID = strPtr(buyerID)
			expectLocked(trade)

			_, err := ctrl.Cancel(ctx, buyer, trade.ID)

			Expect(errors.Is(err, model.ErrForbidden)).To(BeTrue())
		})

		It("lets either party cancel an accepted trade", func() {
			trade := sellTrade(model.EscrowStatusAccepted)
			expectLocked(trade)
			expectTransition(trade.ID, model.EscrowStatusAccepted)
			expectEvent(model.EscrowActionCancelled)

			got, err := ctrl.Cancel(ctx, buyer, trade.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.EscrowStatusCancelled))
		})

		It("conflicts once the trade is funded", func() {
			expectLocked(sellTrade(model.EscrowStatusFunded))

			_, err := ctrl.Cancel(ctx, seller, 7)

			Expect(errors.Is(err, model.ErrInvalidTransition)).To(BeTrue())
		})
	})

	Describe("ExpireOverdue", func() {
		It("cancels only trades still waiting past their deadline", func() {
			past := now.Add(-time.Minute)
			overdue := sellTrade(model.EscrowStatusAccepted)
			overdue.ExpiresAt = &past
			movedOn := sellTrade(model.EscrowStatusFunded)
			movedOn.ID = 8
			movedOn.ExpiresAt = &past

			stores.EscrowTrade.On("ListExpiredIDs", mock.Anything, now).Return([]int64{7, 8}, nil)
			expectLocked(overdue)
			expectLocked(movedOn)
			expectTransition(7, model.EscrowStatusAccepted)
			stores.EscrowEvent.On("Append", mock.Anything, mock.MatchedBy(func(e *model.EscrowEvent) bool {
				return e.Action == model.EscrowActionExpired && e.ActorID == "system" && e.TradeID == 7
			})).Return(&model.EscrowEvent{}, nil)

			n, err := ctrl.ExpireOverdue(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(overdue.Status).To(Equal(model.EscrowStatusCancelled))
			Expect(movedOn.Status).To(Equal(model.EscrowStatusFunded))
			Expect(publisher.types()).To(Equal([]string{notifier.EventEscrowCancelled}))
		})
	})

	Describe("reading", func() {
		It("hides a trade from non-parties", func() {
			stores.EscrowTrade.On("GetByID", mock.Anything, int64(7)).Return(sellTrade(model.EscrowStatusFunded), nil)

			_, err := ctrl.Get(ctx, stranger, 7)

			Expect(errors.Is(err, model.ErrNotFound)).To(BeTrue())
		})

		It("shows a trade to moderators", func() {
			stores.EscrowTrade.On("GetByID", mock.Anything, int64(7)).Return(sellTrade(model.EscrowStatusFunded), nil)

			got, err := ctrl.Get(ctx, moderator, 7)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(int64(7)))
		})

		It("passes the status filter to the store", func() {
			stores.EscrowTrade.On("ListByParty", mock.Anything, buyerID, escrowtrade.ListFilter{Status: model.EscrowStatusPaid}).
				Return([]model.EscrowTrade{*sellTrade(model.EscrowStatusPaid)}, nil)

			trades, err := ctrl.ListMine(ctx, buyer, model.EscrowStatusPaid)

			Expect(err).NotTo(HaveOccurred())
			Expect(trades).To(HaveLen(1))
		})

		It("validates message length", func() {
			_, err := ctrl.PostMessage(ctx, buyer, 7, strings.Repeat("x", maxMessageLength+1), "")

			Expect(errors.Is(err, model.ErrInvalidInput)).To(BeTrue())
		})

		It("stores a party's message", func() {
			stores.EscrowTrade.On("GetByID", mock.Anything, int64(7)).Return(sellTrade(model.EscrowStatusFunded), nil)
			stores.EscrowMessage.On("Create", mock.Anything, mock.MatchedBy(func(m *model.EscrowMessage) bool {
				return m.TradeID == 7 && m.SenderID == buyerID && m.Message == "sent via UPI"
			})).Return(&model.EscrowMessage{ID: 1}, nil)

			msg, err := ctrl.PostMessage(ctx, buyer, 7, " sent via UPI ", "")

			Expect(err).NotTo(HaveOccurred())
			Expect(msg.ID).To(Equal(int64(1)))
		})

		It("reports whether the audit chain verifies", func() {
			events := []model.EscrowEvent{
				{ID: 1, TradeID: 7, Action: model.EscrowActionCreated, ToStatus: model.EscrowStatusCreated, ActorID: sellerID, CreatedAt: now},
				{ID: 2, TradeID: 7, Action: model.EscrowActionAccepted, FromStatus: model.EscrowStatusCreated, ToStatus: model.EscrowStatusAccepted, ActorID: buyerID, CreatedAt: now},
			}
			events[0].Hash = events[0].ComputeHash()
			events[1].PrevHash = events[0].Hash
			events[1].Hash = events[1].ComputeHash()

			stores.EscrowTrade.On("GetByID", mock.Anything, int64(7)).Return(sellTrade(model.EscrowStatusAccepted), nil)
			stores.EscrowEvent.On("ListByTrade", mock.Anything, int64(7)).Return(events, nil).Once()

			trail, err := ctrl.Events(ctx, seller, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(trail.Verified).To(BeTrue())
			Expect(trail.BrokenAt).To(BeNil())

			tampered := append([]model.EscrowEvent(nil), events...)
			tampered[1].Note = "edited"
			stores.EscrowEvent.On("ListByTrade", mock.Anything, int64(7)).Return(tampered, nil).Once()

			trail, err = ctrl.Events(ctx, seller, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(trail.Verified).To(BeFalse())
			Expect(*trail.BrokenAt).To(Equal(1))
		})
	})
})
