package marketrate

import (
	"strings"
	"time"

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

func (s *store) List(tx *gorm.DB) ([]model.MarketRate, error) {
	var rates []model.MarketRate
	err := tx.Order("last_updated DESC").Find(&rates).Error
	return rates, err
}

func (s *store) GetBySymbol(tx *gorm.DB, symbol string) (*model.MarketRate, error) {
	var rate model.MarketRate
	err := tx.Where("symbol = ?", strings.ToUpper(symbol)).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "market rate %s", symbol)
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *store) Upsert(tx *gorm.DB, rate *model.MarketRate) (*model.MarketRate, error) {
	rate.Symbol = strings.ToUpper(rate.Symbol)
	rate.LastUpdated = time.Now()
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_usd", "price_inr", "change_24h", "volume_24h", "last_updated"}),
	}).Create(rate).Error
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// InsertMissing stores rate only when its symbol has no row yet.
func (s *store) InsertMissing(tx *gorm.DB, rate *model.MarketRate) (bool, error) {
	rate.Symbol = strings.ToUpper(rate.Symbol)
	rate.LastUpdated = time.Now()
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(rate)
	return res.RowsAffected > 0, res.Error
}
