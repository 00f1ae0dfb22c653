package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cryptocurrency struct {
	ID              int64            `gorm:"column:id;primaryKey" json:"id"`
	Symbol          string           `gorm:"column:symbol;uniqueIndex" json:"symbol"`
	Name            string           `gorm:"column:name" json:"name"`
	NetworkName     string           `gorm:"column:network_name" json:"networkName"`
	ContractAddress string           `gorm:"column:contract_address" json:"contractAddress"`
	Decimals        int              `gorm:"column:decimals;default:18" json:"decimals"`
	IsActive        bool             `gorm:"column:is_active;default:true" json:"isActive"`
	MinSwapAmount   *decimal.Decimal `gorm:"column:min_swap_amount;type:numeric(20,8)" json:"minSwapAmount"`
	MaxSwapAmount   *decimal.Decimal `gorm:"column:max_swap_amount;type:numeric(20,8)" json:"maxSwapAmount"`
	TradingFee      decimal.Decimal  `gorm:"column:trading_fee;type:numeric(5,4);default:0.005" json:"tradingFee"`
	IconUrl         string           `gorm:"column:icon_url" json:"iconUrl"`
	CreatedAt       time.Time        `gorm:"column:created_at" json:"createdAt"`
}

func (Cryptocurrency) TableName() string {
	return "cryptocurrencies"
}
