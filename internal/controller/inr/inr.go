package inr

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/consts"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

type controller struct {
	db        store.DBRepo
	store     *store.Store
	oracle    oracle.IOracle
	metrics   *monitoring.BusinessMetricsRecorder
	logger    *logger.Logger
	appConfig *config.AppConfig
	now       func() time.Time
}

func New(
	db store.DBRepo,
	s *store.Store,
	oracle oracle.IOracle,
	metrics *monitoring.BusinessMetricsRecorder,
	logger *logger.Logger,
	appConfig *config.AppConfig,
) IController {
	return &controller{
		db:        db,
		store:     s,
		oracle:    oracle,
		metrics:   metrics,
		logger:    logger,
		appConfig: appConfig,
		now:       time.Now,
	}
}

func (c *controller) Create(ctx context.Context, userID string, in CreateInput) (*model.InrTransaction, error) {
	start := c.now()
	txn, err := c.create(ctx, userID, in)
	c.record("create", err, c.now().Sub(start))
	return txn, err
}

func (c *controller) create(ctx context.Context, userID string, in CreateInput) (*model.InrTransaction, error) {
	if in.Type != model.TradeTypeBuy && in.Type != model.TradeTypeSell {
		return nil, errors.Wrapf(model.ErrInvalidInput, "unknown transaction type %q", in.Type)
	}
	if !in.CryptoAmount.IsPositive() {
		return nil, errors.Wrap(model.ErrInvalidInput, "cryptoAmount must be positive")
	}
	if !consts.CryptoAmountFits(in.CryptoAmount) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "cryptoAmount must be below %s", consts.MaxCryptoAmount)
	}
	symbol := strings.ToUpper(strings.TrimSpace(in.Cryptocurrency))

	db := c.db.DB(ctx)
	if err := c.checkKYC(db, userID); err != nil {
		return nil, err
	}
	if _, err := c.store.InrPaymentMethod.GetActiveByIDForUser(db, in.PaymentMethodID, userID); err != nil {
		return nil, err
	}

	currency, err := c.store.Cryptocurrency.GetBySymbol(db, symbol)
	if errors.Is(err, model.ErrNotFound) || (err == nil && !currency.IsActive) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "unsupported cryptocurrency %s", symbol)
	}
	if err != nil {
		return nil, err
	}

	rate, err := c.oracle.GetMarketRate(ctx, symbol)
	if errors.Is(err, model.ErrNotFound) || (err == nil && !rate.PriceInr.IsPositive()) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "no INR price for %s", symbol)
	}
	if err != nil {
		return nil, err
	}

	inrAmount := in.CryptoAmount.Mul(rate.PriceInr).Round(consts.INR_DECIMALS)
	if !consts.InrAmountFits(inrAmount) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "INR amount must be below %s", consts.MaxInrAmount)
	}
	expiresAt := c.now().Add(c.appConfig.Trading.InrExpiry)

	txn, err := c.store.InrTransaction.Create(db, &model.InrTransaction{
		UserID:          userID,
		PaymentMethodID: in.PaymentMethodID,
		Type:            in.Type,
		Cryptocurrency:  symbol,
		CryptoAmount:    in.CryptoAmount.Round(consts.CRYPTO_DECIMALS),
		InrAmount:       inrAmount,
		ExchangeRate:    rate.PriceInr,
		PlatformFee:     inrAmount.Mul(c.appConfig.Trading.PlatformFeeRate).Round(consts.INR_DECIMALS),
		Status:          model.InrStatusPending,
		CryptoAddress:   strings.TrimSpace(in.CryptoAddress),
		ExpiresAt:       &expiresAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create inr transaction")
	}
	return txn, nil
}

func (c *controller) Get(ctx context.Context, userID string, id int64) (*model.InrTransaction, error) {
	return c.store.InrTransaction.GetByIDForUser(c.db.DB(ctx), id, userID)
}

func (c *controller) List(ctx context.Context, userID string) ([]model.InrTransaction, error) {
	return c.store.InrTransaction.ListByUser(c.db.DB(ctx), userID)
}

func (c *controller) SubmitPaymentProof(ctx context.Context, userID string, id int64, proof string) (*model.InrTransaction, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "paymentProof is required")
	}

	txn, err := c.transition(ctx, "payment_proof", id, func(txn *model.InrTransaction) (map[string]interface{}, error) {
		if txn.UserID != userID {
			return nil, errors.Wrapf(model.ErrNotFound, "inr transaction %d", id)
		}
		if txn.Status != model.InrStatusPending {
			return nil, errors.Wrapf(model.ErrInvalidTransition, "payment proof cannot be submitted in status %s", txn.Status)
		}
		txn.PaymentProof = proof
		return map[string]interface{}{
			"status":        model.InrStatusPaid,
			"payment_proof": proof,
		}, nil
	})
	return txn, err
}

func (c *controller) UpdateStatus(ctx context.Context, id int64, status model.InrTransactionStatus, txHash string) (*model.InrTransaction, error) {
	if status == model.InrStatusPaid {
		return nil, errors.Wrap(model.ErrInvalidInput, "paid is set by the payment proof")
	}

	return c.transition(ctx, "status_"+string(status), id, func(txn *model.InrTransaction) (map[string]interface{}, error) {
		if !txn.Status.CanTransitionTo(status) {
			return nil, errors.Wrapf(model.ErrInvalidTransition, "cannot move inr transaction from %s to %s", txn.Status, status)
		}

		fields := map[string]interface{}{"status": status}
		if txHash = strings.TrimSpace(txHash); txHash != "" {
			fields["transaction_hash"] = txHash
			txn.TransactionHash = txHash
		}
		if status == model.InrStatusCompleted {
			now := c.now()
			fields["completed_at"] = now
			txn.CompletedAt = &now
		}
		return fields, nil
	})
}

func (c *controller) ExpirePending(ctx context.Context) (int64, error) {
	return c.store.InrTransaction.ExpirePending(c.db.DB(ctx), c.now())
}

// transition locks the row, lets decide build the update and writes it
// guarded on the status that was read.
func (c *controller) transition(
	ctx context.Context,
	operation string,
	id int64,
	decide func(txn *model.InrTransaction) (map[string]interface{}, error),
) (*model.InrTransaction, error) {
	var txn *model.InrTransaction
	err := c.db.DoInTx(ctx, func(tx *gorm.DB) error {
		var err error
		txn, err = c.store.InrTransaction.GetByIDForUpdate(tx, id)
		if err != nil {
			return err
		}

		from := txn.Status
		fields, err := decide(txn)
		if err != nil {
			return err
		}
		if err := c.store.InrTransaction.UpdateStatus(tx, id, from, fields); err != nil {
			return err
		}
		txn.Status = fields["status"].(model.InrTransactionStatus)
		return nil
	})
	c.record(operation, err, 0)

	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (c *controller) checkKYC(db *gorm.DB, userID string) error {
	if !c.appConfig.Trading.RequireKYC {
		return nil
	}
	user, err := c.store.User.GetByID(db, userID)
	if err != nil {
		return err
	}
	if user.KycStatus != model.KYCStatusVerified {
		return model.ErrKYCRequired
	}
	return nil
}

func (c *controller) record(operation string, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordInrTransaction(operation, status, elapsed.Seconds())
}
