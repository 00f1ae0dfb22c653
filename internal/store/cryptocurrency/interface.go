package cryptocurrency

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	ListActive(tx *gorm.DB) ([]model.Cryptocurrency, error)
	GetBySymbol(tx *gorm.DB, symbol string) (*model.Cryptocurrency, error)
	Upsert(tx *gorm.DB, c *model.Cryptocurrency) error
}
