package marketrate

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	List(tx *gorm.DB) ([]model.MarketRate, error)
	GetBySymbol(tx *gorm.DB, symbol string) (*model.MarketRate, error)
	Upsert(tx *gorm.DB, rate *model.MarketRate) (*model.MarketRate, error)
	InsertMissing(tx *gorm.DB, rate *model.MarketRate) (bool, error)
}
