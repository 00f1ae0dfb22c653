package store

import (
	"github.com/dwarvesf/tradeshield-backend/internal/store/cryptocurrency"
	"github.com/dwarvesf/tradeshield-backend/internal/store/escrowevent"
	"github.com/dwarvesf/tradeshield-backend/internal/store/escrowmessage"
	"github.com/dwarvesf/tradeshield-backend/internal/store/escrowtrade"
	"github.com/dwarvesf/tradeshield-backend/internal/store/inrpaymentmethod"
	"github.com/dwarvesf/tradeshield-backend/internal/store/inrtransaction"
	"github.com/dwarvesf/tradeshield-backend/internal/store/marketrate"
	"github.com/dwarvesf/tradeshield-backend/internal/store/swaptransaction"
	"github.com/dwarvesf/tradeshield-backend/internal/store/user"
	"github.com/dwarvesf/tradeshield-backend/internal/store/userwallet"
)

type Store struct {
	User             user.IStore
	Cryptocurrency   cryptocurrency.IStore
	MarketRate       marketrate.IStore
	SwapTransaction  swaptransaction.IStore
	InrPaymentMethod inrpaymentmethod.IStore
	InrTransaction   inrtransaction.IStore
	EscrowTrade      escrowtrade.IStore
	EscrowMessage    escrowmessage.IStore
	EscrowEvent      escrowevent.IStore
	UserWallet       userwallet.IStore
}

func New() *Store {
	return &Store{
		User:             user.New(),
		Cryptocurrency:   cryptocurrency.New(),
		MarketRate:       marketrate.New(),
		SwapTransaction:  swaptransaction.New(),
		InrPaymentMethod: inrpaymentmethod.New(),
		InrTransaction:   inrtransaction.New(),
		EscrowTrade:      escrowtrade.New(),
		EscrowMessage:    escrowmessage.New(),
		EscrowEvent:      escrowevent.New(),
		UserWallet:       userwallet.New(),
	}
}
