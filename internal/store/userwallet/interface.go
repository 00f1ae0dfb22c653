package userwallet

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, wallet *model.UserWallet) (*model.UserWallet, error)
	// CreateIfMissing reports false when the user already holds a wallet for the currency.
	CreateIfMissing(tx *gorm.DB, wallet *model.UserWallet) (bool, error)
	ListActiveByUser(tx *gorm.DB, userID string) ([]model.UserWallet, error)
	GetForUpdate(tx *gorm.DB, userID, cryptocurrency string) (*model.UserWallet, error)
	Credit(tx *gorm.DB, id int64, amount decimal.Decimal) error
}
