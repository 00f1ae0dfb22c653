package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MarketRate struct {
	ID          int64           `gorm:"column:id;primaryKey" json:"id"`
	Symbol      string          `gorm:"column:symbol;uniqueIndex" json:"symbol"`
	PriceUsd    decimal.Decimal `gorm:"column:price_usd;type:numeric(20,8)" json:"priceUsd"`
	PriceInr    decimal.Decimal `gorm:"column:price_inr;type:numeric(12,2)" json:"priceInr"`
	Change24h   decimal.Decimal `gorm:"column:change_24h;type:numeric(5,2)" json:"change24h"`
	Volume24h   decimal.Decimal `gorm:"column:volume_24h;type:numeric(20,2)" json:"volume24h"`
	LastUpdated time.Time       `gorm:"column:last_updated" json:"lastUpdated"`
}

func (MarketRate) TableName() string {
	return "market_rates"
}
