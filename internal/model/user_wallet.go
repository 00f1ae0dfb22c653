package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserWallet struct {
	ID             int64           `gorm:"column:id;primaryKey" json:"id"`
	UserID         string          `gorm:"column:user_id;uniqueIndex:idx_user_wallets_user_currency" json:"userId"`
	Cryptocurrency string          `gorm:"column:cryptocurrency;uniqueIndex:idx_user_wallets_user_currency" json:"cryptocurrency"`
	Address        string          `gorm:"column:address" json:"address"`
	Balance        decimal.Decimal `gorm:"column:balance;type:numeric(20,8)" json:"balance"`
	IsActive       bool            `gorm:"column:is_active;default:true" json:"isActive"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"createdAt"`
}

func (UserWallet) TableName() string {
	return "user_wallets"
}

// NewUserWallet returns an empty custodial wallet with a generated address.
func NewUserWallet(userID, cryptocurrency string) *UserWallet {
	return &UserWallet{
		UserID:         userID,
		Cryptocurrency: strings.ToUpper(cryptocurrency),
		Address:        "ts_" + strings.ToLower(cryptocurrency) + "_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Balance:        decimal.Zero,
		IsActive:       true,
	}
}
