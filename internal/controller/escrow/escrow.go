package escrow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/consts"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/notifier"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/store/escrowtrade"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

const (
	maxMessageLength = 2000

	completedMessage = "Trade completed successfully. Funds have been released."
)

type controller struct {
	db        store.DBRepo
	store     *store.Store
	publisher notifier.IPublisher
	metrics   *monitoring.BusinessMetricsRecorder
	logger    *logger.Logger
	appConfig *config.AppConfig
	now       func() time.Time
}

func New(
	db store.DBRepo,
	s *store.Store,
	publisher notifier.IPublisher,
	metrics *monitoring.BusinessMetricsRecorder,
	logger *logger.Logger,
	appConfig *config.AppConfig,
) IController {
	return &controller{
		db:        db,
		store:     s,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		appConfig: appConfig,
		now:       time.Now,
	}
}

// transition collects what one state change writes. decide functions fill it
// while mutating the locked trade, apply persists it.
type transition struct {
	action  model.EscrowAction
	event   string
	note    string
	fields   map[string]interface{}
	messages []*model.EscrowMessage
	credit   *walletCredit
}

type walletCredit struct {
	userID   string
	currency string
	amount   decimal.Decimal
}

func newTransition(action model.EscrowAction, event string) *transition {
	return &transition{action: action, event: event, fields: map[string]interface{}{}}
}

// say queues a chat message written alongside the state change, in order.
func (tr *transition) say(senderID, text string) {
	tr.messages = append(tr.messages, &model.EscrowMessage{SenderID: senderID, Message: text})
}

func (tr *transition) setStatus(trade *model.EscrowTrade, status model.EscrowStatus) {
	trade.Status = status
	tr.fields["status"] = status
}

func (c *controller) Create(ctx context.Context, actor Actor, in CreateInput) (*model.EscrowTrade, error) {
	in.Cryptocurrency = strings.ToUpper(strings.TrimSpace(in.Cryptocurrency))
	in.CounterpartyID = strings.TrimSpace(in.CounterpartyID)

	if in.Type != model.TradeTypeBuy && in.Type != model.TradeTypeSell {
		return nil, errors.Wrapf(model.ErrInvalidInput, "unknown trade type %q", in.Type)
	}
	switch in.PaymentMethod {
	case model.EscrowPaymentUPI, model.EscrowPaymentBankTransfer, model.EscrowPaymentIMPS:
	default:
		return nil, errors.Wrapf(model.ErrInvalidInput, "unsupported payment method %q", in.PaymentMethod)
	}
	if !in.CryptoAmount.IsPositive() || !in.InrAmount.IsPositive() {
		return nil, errors.Wrap(model.ErrInvalidInput, "amounts must be positive")
	}
	if !consts.CryptoAmountFits(in.CryptoAmount) || !consts.InrAmountFits(in.InrAmount) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "cryptoAmount must be below %s and inrAmount below %s",
			consts.MaxCryptoAmount, consts.MaxInrAmount)
	}
	if in.CounterpartyID == actor.UserID {
		return nil, errors.Wrap(model.ErrInvalidInput, "counterparty must differ from creator")
	}

	var trade *model.EscrowTrade
	err := c.db.DoInTx(ctx, func(tx *gorm.DB) error {
		if err := c.checkKYC(tx, actor.UserID); err != nil {
			return err
		}

		currency, err := c.store.Cryptocurrency.GetBySymbol(tx, in.Cryptocurrency)
		if errors.Is(err, model.ErrNotFound) || (err == nil && !currency.IsActive) {
			return errors.Wrapf(model.ErrInvalidInput, "unsupported cryptocurrency %s", in.Cryptocurrency)
		}
		if err != nil {
			return err
		}

		var counterparty *string
		if in.CounterpartyID != "" {
			if _, err := c.store.User.GetByID(tx, in.CounterpartyID); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return errors.Wrap(model.ErrInvalidInput, "counterparty does not exist")
				}
				return err
			}
			counterparty = &in.CounterpartyID
		}

		now := c.now()
		expiresAt := now.Add(c.appConfig.Trading.EscrowExpiry)
		trade, err = c.store.EscrowTrade.Create(tx, &model.EscrowTrade{
			CreatorID:      actor.UserID,
			CounterpartyID: counterparty,
			Type:           in.Type,
			Cryptocurrency: in.Cryptocurrency,
			CryptoAmount:   in.CryptoAmount.Round(consts.CRYPTO_DECIMALS),
			InrAmount:      in.InrAmount.Round(consts.INR_DECIMALS),
			PaymentMethod:  in.PaymentMethod,
			Status:         model.EscrowStatusCreated,
			ExpiresAt:      &expiresAt,
		})
		if err != nil {
			return errors.Wrap(err, "create escrow trade")
		}

		trade.EscrowAddress = fmt.Sprintf("escrow_%d_%d", trade.ID, now.UnixMilli())
		if err := c.store.EscrowTrade.SetEscrowAddress(tx, trade.ID, trade.EscrowAddress); err != nil {
			return errors.Wrap(err, "set escrow address")
		}

		_, err = c.store.EscrowEvent.Append(tx, &model.EscrowEvent{
			TradeID:   trade.ID,
			ActorID:   actor.UserID,
			Action:    model.EscrowActionCreated,
			ToStatus:  model.EscrowStatusCreated,
			CreatedAt: now,
		})
		return err
	})
	if err != nil {
		c.metrics.RecordEscrowTransition(string(model.EscrowActionCreated), "error", 0)
		return nil, err
	}

	c.metrics.RecordEscrowTransition(string(model.EscrowActionCreated), "success", 0)
	c.publish(ctx, notifier.EventEscrowCreated, trade)
	return trade, nil
}

func (c *controller) Get(ctx context.Context, actor Actor, id int64) (*model.EscrowTrade, error) {
	trade, err := c.store.EscrowTrade.GetByID(c.db.DB(ctx), id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, trade) {
		return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
	}
	return trade, nil
}

func (c *controller) ListMine(ctx context.Context, actor Actor, status model.EscrowStatus) ([]model.EscrowTrade, error) {
	return c.store.EscrowTrade.ListByParty(c.db.DB(ctx), actor.UserID, escrowtrade.ListFilter{Status: status})
}

func (c *controller) ListOpen(ctx context.Context, actor Actor) ([]model.EscrowTrade, error) {
	return c.store.EscrowTrade.ListOpen(c.db.DB(ctx), actor.UserID, escrowtrade.ListFilter{})
}

func (c *controller) ListAll(ctx context.Context, status model.EscrowStatus) ([]model.EscrowTrade, error) {
	return c.store.EscrowTrade.List(c.db.DB(ctx), escrowtrade.ListFilter{Status: status})
}

func (c *controller) Accept(ctx context.Context, actor Actor, id int64) (*model.EscrowTrade, error) {
	return c.apply(ctx, actor.UserID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
		if trade.IsCreator(actor.UserID) {
			return nil, errors.Wrap(model.ErrForbidden, "creator cannot accept own trade")
		}
		if trade.HasCounterparty() && !trade.IsCounterparty(actor.UserID) {
			return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
		}
		if trade.Status != model.EscrowStatusCreated {
			return nil, invalidTransition(trade, "accept")
		}
		if err := c.checkKYC(tx, actor.UserID); err != nil {
			return nil, err
		}

		tr := newTransition(model.EscrowActionAccepted, notifier.EventEscrowAccepted)
		counterparty := actor.UserID
		trade.CounterpartyID = &counterparty
		tr.fields["counterparty_id"] = counterparty
		tr.setStatus(trade, model.EscrowStatusAccepted)
		return tr, nil
	})
}

func (c *controller) Fund(ctx context.Context, actor Actor, id int64, txHash string) (*model.EscrowTrade, error) {
	return c.apply(ctx, actor.UserID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
		if !trade.IsParty(actor.UserID) {
			return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
		}
		if !trade.IsSeller(actor.UserID) {
			return nil, errors.Wrap(model.ErrForbidden, "only the seller funds the escrow")
		}
		if trade.Status != model.EscrowStatusAccepted {
			return nil, invalidTransition(trade, "fund")
		}

		tr := newTransition(model.EscrowActionFunded, notifier.EventEscrowFunded)
		now := c.now()
		trade.FundedAt = &now
		trade.FundingTxHash = strings.TrimSpace(txHash)
		tr.fields["funded_at"] = now
		tr.fields["funding_tx_hash"] = trade.FundingTxHash
		tr.setStatus(trade, model.EscrowStatusFunded)
		return tr, nil
	})
}

// ConfirmPayment records the caller's confirmation. The buyer confirms the
// INR payment first, the seller's confirmation then releases the crypto.
func (c *controller) ConfirmPayment(ctx context.Context, actor Actor, id int64, paymentProof string) (*model.EscrowTrade, error) {
	return c.apply(ctx, actor.UserID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
		if !trade.IsParty(actor.UserID) {
			return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
		}
		if trade.HasConfirmed(actor.UserID) {
			return nil, nil
		}

		switch {
		case trade.IsBuyer(actor.UserID):
			if trade.Status != model.EscrowStatusFunded {
				return nil, invalidTransition(trade, "confirm payment")
			}
			tr := newTransition(model.EscrowActionPaid, notifier.EventEscrowPaid)
			c.markConfirmed(tr, trade, actor.UserID)
			if proof := strings.TrimSpace(paymentProof); proof != "" {
				trade.PaymentProof = proof
				tr.fields["payment_proof"] = proof
			}
			tr.setStatus(trade, model.EscrowStatusPaid)
			return tr, nil

		case trade.IsSeller(actor.UserID):
			if trade.Status != model.EscrowStatusPaid {
				return nil, invalidTransition(trade, "confirm payment")
			}
			tr := newTransition(model.EscrowActionCompleted, notifier.EventEscrowCompleted)
			c.markConfirmed(tr, trade, actor.UserID)
			if !trade.BothConfirmed() {
				return nil, invalidTransition(trade, "release")
			}
			c.complete(tr, trade)
			return tr, nil
		}

		return nil, errors.Wrap(model.ErrForbidden, "trade has no counterparty yet")
	})
}

func (c *controller) Dispute(ctx context.Context, actor Actor, id int64, reason string) (*model.EscrowTrade, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "dispute reason is required")
	}

	return c.apply(ctx, actor.UserID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
		if !trade.IsParty(actor.UserID) {
			return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
		}
		switch trade.Status {
		case model.EscrowStatusAccepted, model.EscrowStatusFunded, model.EscrowStatusPaid:
		default:
			return nil, invalidTransition(trade, "dispute")
		}

		tr := newTransition(model.EscrowActionDisputed, notifier.EventEscrowDisputed)
		tr.note = reason
		trade.DisputeReason = reason
		tr.fields["dispute_reason"] = reason
		tr.setStatus(trade, model.EscrowStatusDispute)
		tr.say(actor.UserID, "Dispute initiated: "+reason)
		return tr, nil
	})
}

// Resolve settles a dispute. Release pays the buyer, refund returns funded
// crypto to the seller.
func (c *controller) Resolve(ctx context.Context, actor Actor, id int64, resolution Resolution, notes string) (*model.EscrowTrade, error) {
	if !actor.IsStaff() {
		return nil, errors.Wrap(model.ErrForbidden, "only moderators resolve disputes")
	}
	if resolution != ResolutionRelease && resolution != ResolutionRefund {
		return nil, errors.Wrapf(model.ErrInvalidInput, "unknown resolution %q", resolution)
	}
	notes = strings.TrimSpace(notes)

	return c.apply(ctx, actor.UserID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
		if trade.IsParty(actor.UserID) {
			return nil, errors.Wrap(model.ErrForbidden, "a party cannot resolve its own dispute")
		}
		if trade.Status != model.EscrowStatusDispute {
			return nil, invalidTransition(trade, "resolve")
		}

		var tr *transition
		if resolution == ResolutionRelease {
			tr = newTransition(model.EscrowActionResolved, notifier.EventEscrowCompleted)
			c.complete(tr, trade)
		} else {
			tr = newTransition(model.EscrowActionResolved, notifier.EventEscrowCancelled)
			tr.setStatus(trade, model.EscrowStatusCancelled)
			if trade.FundedAt != nil {
				tr.credit = &walletCredit{userID: trade.SellerID(), currency: trade.Cryptocurrency, amount: trade.CryptoAmount}
			}
		}

		moderator := actor.UserID
		trade.ModeratorID = &moderator
		trade.ModeratorNotes = notes
		tr.fields["moderator_id"] = moderator
		tr.fields["moderator_notes"] = notes
		tr.note = string(resolution)
		tr.say(actor.UserID, strings.TrimSpace(fmt.Sprintf("Dispute resolved: %s. %s", resolution, notes)))
		return tr, nil
	})
}

func (c *controller) Cancel(ctx context.Context, actor Actor, id int64) (*model.EscrowTrade, error) {
	return c.apply(ctx, actor.UserID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
		if !trade.IsParty(actor.UserID) {
			return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
		}
		switch trade.Status {
		case model.EscrowStatusCreated:
			if !trade.IsCreator(actor.UserID) {
				return nil, errors.Wrap(model.ErrForbidden, "only the creator cancels an unaccepted trade")
			}
		case model.EscrowStatusAccepted:
		default:
			return nil, invalidTransition(trade, "cancel")
		}

		tr := newTransition(model.EscrowActionCancelled, notifier.EventEscrowCancelled)
		tr.setStatus(trade, model.EscrowStatusCancelled)
		return tr, nil
	})
}

func (c *controller) ExpireOverdue(ctx context.Context) (int, error) {
	now := c.now()
	ids, err := c.store.EscrowTrade.ListExpiredIDs(c.db.DB(ctx), now)
	if err != nil {
		return 0, errors.Wrap(err, "list expired escrow trades")
	}

	expired := 0
	for _, id := range ids {
		changed := false
		_, err := c.apply(ctx, consts.SYSTEM_SENDER_ID, id, func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error) {
			// the trade may have moved on since it was listed
			if trade.Status != model.EscrowStatusCreated && trade.Status != model.EscrowStatusAccepted {
				return nil, nil
			}
			if trade.ExpiresAt == nil || !trade.ExpiresAt.Before(now) {
				return nil, nil
			}
			changed = true
			tr := newTransition(model.EscrowActionExpired, notifier.EventEscrowCancelled)
			tr.note = "expired"
			tr.setStatus(trade, model.EscrowStatusCancelled)
			return tr, nil
		})
		if err != nil {
			c.logger.Error("[ExpireOverdue][apply]", map[string]string{
				"trade_id": fmt.Sprint(id),
				"error":    err.Error(),
			})
			continue
		}
		if changed {
			expired++
		}
	}

	return expired, nil
}

func (c *controller) ListMessages(ctx context.Context, actor Actor, id int64) ([]model.EscrowMessage, error) {
	db := c.db.DB(ctx)
	if _, err := c.viewable(db, actor, id); err != nil {
		return nil, err
	}
	return c.store.EscrowMessage.ListByTrade(db, id)
}

func (c *controller) PostMessage(ctx context.Context, actor Actor, id int64, message, attachmentURL string) (*model.EscrowMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" || len([]rune(message)) > maxMessageLength {
		return nil, errors.Wrapf(model.ErrInvalidInput, "message must be 1 to %d characters", maxMessageLength)
	}

	db := c.db.DB(ctx)
	if _, err := c.viewable(db, actor, id); err != nil {
		return nil, err
	}

	return c.store.EscrowMessage.Create(db, &model.EscrowMessage{
		TradeID:       id,
		SenderID:      actor.UserID,
		Message:       message,
		AttachmentUrl: strings.TrimSpace(attachmentURL),
	})
}

func (c *controller) Events(ctx context.Context, actor Actor, id int64) (*EventTrail, error) {
	db := c.db.DB(ctx)
	if _, err := c.viewable(db, actor, id); err != nil {
		return nil, err
	}

	events, err := c.store.EscrowEvent.ListByTrade(db, id)
	if err != nil {
		return nil, err
	}

	trail := &EventTrail{Events: events, Verified: true}
	if broken := model.VerifyChain(events); broken >= 0 {
		trail.Verified = false
		trail.BrokenAt = &broken
	}
	return trail, nil
}

// apply runs decide against the locked trade and persists its transition in
// the same database transaction. A nil transition leaves the trade untouched.
func (c *controller) apply(ctx context.Context, actorID string, id int64, decide func(tx *gorm.DB, trade *model.EscrowTrade) (*transition, error)) (*model.EscrowTrade, error) {
	start := c.now()

	var (
		trade *model.EscrowTrade
		tr    *transition
	)
	err := c.db.DoInTx(ctx, func(tx *gorm.DB) error {
		var err error
		trade, err = c.store.EscrowTrade.GetByIDForUpdate(tx, id)
		if err != nil {
			return err
		}

		from := trade.Status
		tr, err = decide(tx, trade)
		if err != nil || tr == nil {
			return err
		}

		if err := c.store.EscrowTrade.Transition(tx, id, from, tr.fields); err != nil {
			return err
		}

		if tr.credit != nil {
			if err := c.creditWallet(tx, tr.credit); err != nil {
				return err
			}
		}

		for _, msg := range tr.messages {
			msg.TradeID = id
			if _, err := c.store.EscrowMessage.Create(tx, msg); err != nil {
				return errors.Wrap(err, "create escrow message")
			}
		}

		_, err = c.store.EscrowEvent.Append(tx, &model.EscrowEvent{
			TradeID:    id,
			ActorID:    actorID,
			Action:     tr.action,
			FromStatus: from,
			ToStatus:   trade.Status,
			Note:       tr.note,
			CreatedAt:  c.now(),
		})
		return err
	})

	action := "noop"
	if tr != nil {
		action = string(tr.action)
	}
	duration := c.now().Sub(start).Seconds()
	if err != nil {
		c.metrics.RecordEscrowTransition(action, "error", duration)
		return nil, err
	}
	c.metrics.RecordEscrowTransition(action, "success", duration)

	if tr != nil && tr.event != "" {
		c.publish(ctx, tr.event, trade)
	}
	return trade, nil
}

func (c *controller) markConfirmed(tr *transition, trade *model.EscrowTrade, userID string) {
	if trade.IsCreator(userID) {
		trade.CreatorConfirmed = true
		tr.fields["creator_confirmed"] = true
		return
	}
	trade.CounterpartyConfirmed = true
	tr.fields["counterparty_confirmed"] = true
}

func (c *controller) complete(tr *transition, trade *model.EscrowTrade) {
	now := c.now()
	trade.CompletedAt = &now
	tr.fields["completed_at"] = now
	tr.setStatus(trade, model.EscrowStatusCompleted)
	tr.credit = &walletCredit{userID: trade.BuyerID(), currency: trade.Cryptocurrency, amount: trade.CryptoAmount}
	tr.say(consts.SYSTEM_SENDER_ID, completedMessage)
}

// creditWallet opens the wallet on first credit. A concurrent settlement may
// open it first, so the insert ignores the conflict and the row is re-read
// under lock.
func (c *controller) creditWallet(tx *gorm.DB, credit *walletCredit) error {
	wallet, err := c.store.UserWallet.GetForUpdate(tx, credit.userID, credit.currency)
	if errors.Is(err, model.ErrNotFound) {
		if _, err := c.store.UserWallet.CreateIfMissing(tx, model.NewUserWallet(credit.userID, credit.currency)); err != nil {
			return errors.Wrapf(err, "open %s wallet", credit.currency)
		}
		wallet, err = c.store.UserWallet.GetForUpdate(tx, credit.userID, credit.currency)
	}
	if err != nil {
		return errors.Wrapf(err, "load %s wallet", credit.currency)
	}
	return c.store.UserWallet.Credit(tx, wallet.ID, credit.amount)
}

func (c *controller) checkKYC(tx *gorm.DB, userID string) error {
	if !c.appConfig.Trading.RequireKYC {
		return nil
	}
	user, err := c.store.User.GetByID(tx, userID)
	if err != nil {
		return err
	}
	if user.KycStatus != model.KYCStatusVerified {
		return model.ErrKYCRequired
	}
	return nil
}

func (c *controller) viewable(db *gorm.DB, actor Actor, id int64) (*model.EscrowTrade, error) {
	trade, err := c.store.EscrowTrade.GetByID(db, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, trade) {
		return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
	}
	return trade, nil
}

func (c *controller) publish(ctx context.Context, eventType string, trade *model.EscrowTrade) {
	err := c.publisher.Publish(context.WithoutCancel(ctx), notifier.Event{
		Type:       eventType,
		Key:        fmt.Sprint(trade.ID),
		OccurredAt: c.now(),
		Data:       trade,
	})
	if err != nil {
		c.logger.Error("[escrow][publish]", map[string]string{
			"trade_id": fmt.Sprint(trade.ID),
			"event":    eventType,
			"error":    err.Error(),
		})
	}
}

func canView(actor Actor, trade *model.EscrowTrade) bool {
	return trade.IsParty(actor.UserID) || actor.IsStaff()
}

func invalidTransition(trade *model.EscrowTrade, op string) error {
	return errors.Wrapf(model.ErrInvalidTransition, "cannot %s a %s trade", op, trade.Status)
}
