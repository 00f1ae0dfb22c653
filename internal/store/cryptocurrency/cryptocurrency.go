package cryptocurrency

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) ListActive(tx *gorm.DB) ([]model.Cryptocurrency, error) {
	var currencies []model.Cryptocurrency
	err := tx.Where("is_active = ?", true).Order("name ASC").Find(&currencies).Error
	return currencies, err
}

func (s *store) GetBySymbol(tx *gorm.DB, symbol string) (*model.Cryptocurrency, error) {
	var c model.Cryptocurrency
	err := tx.Where("symbol = ?", strings.ToUpper(symbol)).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "cryptocurrency %s", symbol)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert inserts a currency or refreshes the listing fields of an existing symbol.
func (s *store) Upsert(tx *gorm.DB, c *model.Cryptocurrency) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "network_name", "decimals", "min_swap_amount", "max_swap_amount", "trading_fee",
		}),
	}).Create(c).Error
}
