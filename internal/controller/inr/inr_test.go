package inr

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	oraclemocks "github.com/dwarvesf/tradeshield-backend/internal/oracle/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/store/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	c      *controller
	stores *mocks.Stores
	oracle *oraclemocks.Oracle
}

func newFixture(requireKYC bool) *fixture {
	stores := mocks.NewStores()
	o := &oraclemocks.Oracle{}
	appConfig := &config.AppConfig{Trading: config.TradingConfig{
		RequireKYC:      requireKYC,
		PlatformFeeRate: decimal.RequireFromString("0.005"),
		InrExpiry:       time.Hour,
	}}

	c := New(&mocks.Repo{}, stores.Store(), o,
		monitoring.NewBusinessMetricsRecorder(monitoring.NewHTTPMetrics()),
		logger.New(environments.Test), appConfig).(*controller)
	c.now = func() time.Time { return fixedNow }
	return &fixture{c: c, stores: stores, oracle: o}
}

func (f *fixture) withTradableBTC() {
	f.stores.InrPaymentMethod.On("GetActiveByIDForUser", mock.Anything, int64(5), "user-1").
		Return(&model.InrPaymentMethod{ID: 5, UserID: "user-1", IsActive: true}, nil)
	f.stores.Cryptocurrency.On("GetBySymbol", mock.Anything, "BTC").
		Return(&model.Cryptocurrency{Symbol: "BTC", IsActive: true}, nil)
	f.oracle.On("GetMarketRate", mock.Anything, "BTC").
		Return(&model.MarketRate{Symbol: "BTC", PriceInr: decimal.RequireFromString("7125678")}, nil)
}

func validInput() CreateInput {
	return CreateInput{
		PaymentMethodID: 5,
		Type:            model.TradeTypeBuy,
		Cryptocurrency:  "btc",
		CryptoAmount:    decimal.RequireFromString("0.01"),
		CryptoAddress:   " bc1qdest ",
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(false)
	f.withTradableBTC()

	var stored *model.InrTransaction
	f.stores.InrTransaction.On("Create", mock.Anything, mock.AnythingOfType("*model.InrTransaction")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.InrTransaction) }).
		Return(&model.InrTransaction{ID: 11}, nil)

	txn, err := f.c.Create(context.Background(), "user-1", validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(11), txn.ID)
	assert.Equal(t, "BTC", stored.Cryptocurrency)
	assert.Equal(t, "71256.78", stored.InrAmount.String())
	assert.Equal(t, "356.28", stored.PlatformFee.String())
	assert.Equal(t, "7125678", stored.ExchangeRate.String())
	assert.Equal(t, "bc1qdest", stored.CryptoAddress)
	assert.Equal(t, model.InrStatusPending, stored.Status)
	assert.Equal(t, fixedNow.Add(time.Hour), *stored.ExpiresAt)
	f.stores.User.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		kyc    bool
		input  func(in *CreateInput)
		setup  func(f *fixture)
		target error
	}{
		{
			name:   "unknown type",
			input:  func(in *CreateInput) { in.Type = "hold" },
			target: model.ErrInvalidInput,
		},
		{
			name:   "non positive amount",
			input:  func(in *CreateInput) { in.CryptoAmount = decimal.NewFromInt(-1) },
			target: model.ErrInvalidInput,
		},
		{
			name:   "crypto amount beyond column precision",
			input:  func(in *CreateInput) { in.CryptoAmount = decimal.New(1, 12) },
			target: model.ErrInvalidInput,
		},
		{
			name:   "inr amount beyond column precision",
			input:  func(in *CreateInput) { in.CryptoAmount = decimal.NewFromInt(2000) },
			setup:  func(f *fixture) { f.withTradableBTC() },
			target: model.ErrInvalidInput,
		},
		{
			name: "kyc not verified",
			kyc:  true,
			setup: func(f *fixture) {
				f.stores.User.On("GetByID", mock.Anything, "user-1").
					Return(&model.User{ID: "user-1", KycStatus: model.KYCStatusPending}, nil)
			},
			target: model.ErrKYCRequired,
		},
		{
			name: "payment method of someone else",
			setup: func(f *fixture) {
				f.stores.InrPaymentMethod.On("GetActiveByIDForUser", mock.Anything, int64(5), "user-1").
					Return(nil, errors.Wrap(model.ErrNotFound, "payment method 5"))
			},
			target: model.ErrNotFound,
		},
		{
			name: "no inr price",
			setup: func(f *fixture) {
				f.stores.InrPaymentMethod.On("GetActiveByIDForUser", mock.Anything, int64(5), "user-1").
					Return(&model.InrPaymentMethod{ID: 5}, nil)
				f.stores.Cryptocurrency.On("GetBySymbol", mock.Anything, "BTC").
					Return(&model.Cryptocurrency{Symbol: "BTC", IsActive: true}, nil)
				f.oracle.On("GetMarketRate", mock.Anything, "BTC").
					Return(nil, errors.Wrap(model.ErrNotFound, "market rate BTC"))
			},
			target: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.kyc)
			if tt.setup != nil {
				tt.setup(f)
			}
			in := validInput()
			if tt.input != nil {
				tt.input(&in)
			}

			_, err := f.c.Create(context.Background(), "user-1", in)

			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			f.stores.InrTransaction.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitPaymentProof(t *testing.T) {
	t.Run("owner moves pending to paid", func(t *testing.T) {
		f := newFixture(false)
		f.stores.InrTransaction.On("GetByIDForUpdate", mock.Anything, int64(11)).
			Return(&model.InrTransaction{ID: 11, UserID: "user-1", Status: model.InrStatusPending}, nil)
		f.stores.InrTransaction.On("UpdateStatus", mock.Anything, int64(11), model.InrStatusPending, map[string]interface{}{
			"status":        model.InrStatusPaid,
			"payment_proof": "UTR123",
		}).Return(nil)

		txn, err := f.c.SubmitPaymentProof(context.Background(), "user-1", 11, " UTR123 ")

		require.NoError(t, err)
		assert.Equal(t, model.InrStatusPaid, txn.Status)
		assert.Equal(t, "UTR123", txn.PaymentProof)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		f := newFixture(false)
		f.stores.InrTransaction.On("GetByIDForUpdate", mock.Anything, int64(11)).
			Return(&model.InrTransaction{ID: 11, UserID: "user-1", Status: model.InrStatusPending}, nil)

		_, err := f.c.SubmitPaymentProof(context.Background(), "user-2", 11, "UTR123")

		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("already paid", func(t *testing.T) {
		f := newFixture(false)
		f.stores.InrTransaction.On("GetByIDForUpdate", mock.Anything, int64(11)).
			Return(&model.InrTransaction{ID: 11, UserID: "user-1", Status: model.InrStatusPaid}, nil)

		_, err := f.c.SubmitPaymentProof(context.Background(), "user-1", 11, "UTR123")

		assert.True(t, errors.Is(err, model.ErrInvalidTransition))
	})

	t.Run("empty proof", func(t *testing.T) {
		f := newFixture(false)

		_, err := f.c.SubmitPaymentProof(context.Background(), "user-1", 11, "  ")

		assert.True(t, errors.Is(err, model.ErrInvalidInput))
	})
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    model.InrTransactionStatus
		to      model.InrTransactionStatus
		wantErr error
	}{
		{name: "paid to confirmed", from: model.InrStatusPaid, to: model.InrStatusConfirmed},
		{name: "confirmed to completed", from: model.InrStatusConfirmed, to: model.InrStatusCompleted},
		{name: "pending to failed", from: model.InrStatusPending, to: model.InrStatusFailed},
		{name: "pending to completed", from: model.InrStatusPending, to: model.InrStatusCompleted, wantErr: model.ErrInvalidTransition},
		{name: "completed to failed", from: model.InrStatusCompleted, to: model.InrStatusFailed, wantErr: model.ErrInvalidTransition},
		{name: "operator cannot mark paid", from: model.InrStatusPending, to: model.InrStatusPaid, wantErr: model.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			f.stores.InrTransaction.On("GetByIDForUpdate", mock.Anything, int64(11)).
				Return(&model.InrTransaction{ID: 11, Status: tt.from}, nil)
			f.stores.InrTransaction.On("UpdateStatus", mock.Anything, int64(11), tt.from, mock.Anything).Return(nil)

			txn, err := f.c.UpdateStatus(context.Background(), 11, tt.to, "")

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				f.stores.InrTransaction.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, txn.Status)
			if tt.to == model.InrStatusCompleted {
				assert.Equal(t, fixedNow, *txn.CompletedAt)
			}
		})
	}
}

func TestExpirePending(t *testing.T) {
	f := newFixture(false)
	f.stores.InrTransaction.On("ExpirePending", mock.Anything, fixedNow).Return(int64(4), nil)

	n, err := f.c.ExpirePending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
