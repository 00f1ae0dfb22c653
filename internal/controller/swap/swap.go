package swap

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
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

func (c *controller) Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*Quote, error) {
	from, to = normalize(from), normalize(to)
	if err := validatePair(from, to, amount); err != nil {
		return nil, err
	}

	feeRate := c.appConfig.Trading.PlatformFeeRate
	currency, err := c.store.Cryptocurrency.GetBySymbol(c.db.DB(ctx), from)
	switch {
	case err == nil && currency.TradingFee.IsPositive():
		feeRate = currency.TradingFee
	case err != nil && !errors.Is(err, model.ErrNotFound):
		c.logger.Error("[Quote][GetBySymbol]", map[string]string{
			"symbol": from,
			"error":  err.Error(),
		})
	}

	return c.quote(ctx, from, to, amount, feeRate), nil
}

func (c *controller) quote(ctx context.Context, from, to string, amount, feeRate decimal.Decimal) *Quote {
	rate := c.oracle.GetExchangeRate(ctx, from, to)
	platformFee := amount.Mul(feeRate).Round(consts.CRYPTO_DECIMALS)
	networkFee := consts.NetworkFee(to)

	return &Quote{
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   amount,
		ToAmount:     amount.Mul(rate).Round(consts.CRYPTO_DECIMALS),
		ExchangeRate: rate,
		PlatformFee:  platformFee,
		NetworkFee:   networkFee,
		TotalFee:     platformFee.Add(networkFee),
		PriceImpact:  consts.SWAP_PRICE_IMPACT,
	}
}

func (c *controller) Create(ctx context.Context, userID string, in CreateInput) (*model.SwapTransaction, error) {
	start := c.now()
	swap, err := c.create(ctx, userID, in)
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordSwapRequest("create", status, c.now().Sub(start).Seconds())
	return swap, err
}

func (c *controller) create(ctx context.Context, userID string, in CreateInput) (*model.SwapTransaction, error) {
	from, to := normalize(in.FromCurrency), normalize(in.ToCurrency)
	if err := validatePair(from, to, in.FromAmount); err != nil {
		return nil, err
	}
	toAddress := strings.TrimSpace(in.ToAddress)
	if toAddress == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "toAddress is required")
	}

	db := c.db.DB(ctx)
	fromCurrency, err := c.activeCurrency(db, from)
	if err != nil {
		return nil, err
	}
	if _, err := c.activeCurrency(db, to); err != nil {
		return nil, err
	}

	if fromCurrency.MinSwapAmount != nil && in.FromAmount.LessThan(*fromCurrency.MinSwapAmount) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "minimum swap amount is %s %s", fromCurrency.MinSwapAmount, from)
	}
	if fromCurrency.MaxSwapAmount != nil && in.FromAmount.GreaterThan(*fromCurrency.MaxSwapAmount) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "maximum swap amount is %s %s", fromCurrency.MaxSwapAmount, from)
	}

	feeRate := fromCurrency.TradingFee
	if !feeRate.IsPositive() {
		feeRate = c.appConfig.Trading.PlatformFeeRate
	}
	q := c.quote(ctx, from, to, in.FromAmount, feeRate)
	if !consts.CryptoAmountFits(q.ToAmount) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "%s %s converts to more than the supported amount", in.FromAmount, from)
	}

	expiresAt := c.now().Add(c.appConfig.Trading.SwapExpiry)
	swap, err := c.store.SwapTransaction.Create(db, &model.SwapTransaction{
		UserID:        userID,
		FromCurrency:  from,
		ToCurrency:    to,
		FromAmount:    in.FromAmount,
		ToAmount:      q.ToAmount,
		ExchangeRate:  q.ExchangeRate,
		PlatformFee:   q.PlatformFee,
		NetworkFee:    q.NetworkFee,
		Status:        model.SwapStatusPending,
		FromAddress:   strings.TrimSpace(in.FromAddress),
		ToAddress:     toAddress,
		RefundAddress: strings.TrimSpace(in.RefundAddress),
		ExpiresAt:     &expiresAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create swap")
	}
	return swap, nil
}

func (c *controller) Get(ctx context.Context, userID string, id int64) (*model.SwapTransaction, error) {
	return c.store.SwapTransaction.GetByIDForUser(c.db.DB(ctx), id, userID)
}

func (c *controller) List(ctx context.Context, userID string) ([]model.SwapTransaction, error) {
	return c.store.SwapTransaction.ListByUser(c.db.DB(ctx), userID)
}

func (c *controller) UpdateStatus(ctx context.Context, id int64, status model.SwapStatus, txHash string) (*model.SwapTransaction, error) {
	var swap *model.SwapTransaction
	err := c.db.DoInTx(ctx, func(tx *gorm.DB) error {
		var err error
		swap, err = c.store.SwapTransaction.GetByIDForUpdate(tx, id)
		if err != nil {
			return err
		}

		from := swap.Status
		if !from.CanTransitionTo(status) {
			return errors.Wrapf(model.ErrInvalidTransition, "cannot move swap from %s to %s", from, status)
		}

		fields := map[string]interface{}{"status": status}
		swap.Status = status
		if txHash = strings.TrimSpace(txHash); txHash != "" {
			fields["transaction_hash"] = txHash
			swap.TransactionHash = txHash
		}
		if status == model.SwapStatusCompleted {
			now := c.now()
			fields["completed_at"] = now
			swap.CompletedAt = &now
		}

		return c.store.SwapTransaction.UpdateStatus(tx, id, from, fields)
	})

	result := "success"
	if err != nil {
		result = "error"
	}
	c.metrics.RecordSwapRequest("status_"+string(status), result, 0)

	if err != nil {
		return nil, err
	}
	return swap, nil
}

func (c *controller) ExpirePending(ctx context.Context) (int64, error) {
	return c.store.SwapTransaction.ExpirePending(c.db.DB(ctx), c.now())
}

func (c *controller) activeCurrency(db *gorm.DB, symbol string) (*model.Cryptocurrency, error) {
	currency, err := c.store.Cryptocurrency.GetBySymbol(db, symbol)
	if errors.Is(err, model.ErrNotFound) || (err == nil && !currency.IsActive) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "unsupported cryptocurrency %s", symbol)
	}
	if err != nil {
		return nil, err
	}
	return currency, nil
}

func validatePair(from, to string, amount decimal.Decimal) error {
	if from == "" || to == "" {
		return errors.Wrap(model.ErrInvalidInput, "both currencies are required")
	}
	if from == to {
		return errors.Wrap(model.ErrInvalidInput, "cannot swap a currency for itself")
	}
	if !amount.IsPositive() {
		return errors.Wrap(model.ErrInvalidInput, "amount must be positive")
	}
	if !consts.CryptoAmountFits(amount) {
		return errors.Wrapf(model.ErrInvalidInput, "amount must be below %s", consts.MaxCryptoAmount)
	}
	return nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
