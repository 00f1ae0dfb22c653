// Package mocks holds testify mocks of the table stores and an in-memory
// DBRepo for controller and job tests.
package mocks

import (
	"context"

	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/store"
)

// Repo satisfies store.DBRepo without a database. Store mocks receive a nil
// *gorm.DB and DoInTx runs fn directly. TxCalls counts transactions started.
type Repo struct {
	TxCalls int
}

func (r *Repo) DB(ctx context.Context) *gorm.DB {
	return nil
}

func (r *Repo) DoInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.TxCalls++
	return fn(nil)
}

func (r *Repo) Close() error {
	return nil
}

// Stores bundles one mock per table store.
type Stores struct {
	User             *UserStore
	Cryptocurrency   *CryptocurrencyStore
	MarketRate       *MarketRateStore
	SwapTransaction  *SwapTransactionStore
	InrPaymentMethod *InrPaymentMethodStore
	InrTransaction   *InrTransactionStore
	EscrowTrade      *EscrowTradeStore
	EscrowMessage    *EscrowMessageStore
	EscrowEvent      *EscrowEventStore
	UserWallet       *UserWalletStore
}

func NewStores() *Stores {
	return &Stores{
		User:             &UserStore{},
		Cryptocurrency:   &CryptocurrencyStore{},
		MarketRate:       &MarketRateStore{},
		SwapTransaction:  &SwapTransactionStore{},
		InrPaymentMethod: &InrPaymentMethodStore{},
		InrTransaction:   &InrTransactionStore{},
		EscrowTrade:      &EscrowTradeStore{},
		EscrowMessage:    &EscrowMessageStore{},
		EscrowEvent:      &EscrowEventStore{},
		UserWallet:       &UserWalletStore{},
	}
}

// Store exposes the mocks through the aggregate used by controllers.
func (s *Stores) Store() *store.Store {
	return &store.Store{
		User:             s.User,
		Cryptocurrency:   s.Cryptocurrency,
		MarketRate:       s.MarketRate,
		SwapTransaction:  s.SwapTransaction,
		InrPaymentMethod: s.InrPaymentMethod,
		InrTransaction:   s.InrTransaction,
		EscrowTrade:      s.EscrowTrade,
		EscrowMessage:    s.EscrowMessage,
		EscrowEvent:      s.EscrowEvent,
		UserWallet:       s.UserWallet,
	}
}

var _ store.DBRepo = (*Repo)(nil)
