package swaptransaction

import (
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

func (s *store) Create(tx *gorm.DB, swap *model.SwapTransaction) (*model.SwapTransaction, error) {
	return swap, tx.Create(swap).Error
}

func (s *store) GetByIDForUser(tx *gorm.DB, id int64, userID string) (*model.SwapTransaction, error) {
	var swap model.SwapTransaction
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(&swap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "swap %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (s *store) GetByIDForUpdate(tx *gorm.DB, id int64) (*model.SwapTransaction, error) {
	var swap model.SwapTransaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&swap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "swap %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (s *store) ListByUser(tx *gorm.DB, userID string) ([]model.SwapTransaction, error) {
	var swaps []model.SwapTransaction
	err := tx.Where("user_id = ?", userID).Order("created_at DESC").Find(&swaps).Error
	return swaps, err
}

// UpdateStatus applies fields only while the swap is still in status from.
func (s *store) UpdateStatus(tx *gorm.DB, id int64, from model.SwapStatus, fields map[string]interface{}) error {
	res := tx.Model(&model.SwapTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrInvalidTransition, "swap %d is no longer %s", id, from)
	}
	return nil
}

func (s *store) ExpirePending(tx *gorm.DB, now time.Time) (int64, error) {
	res := tx.Model(&model.SwapTransaction{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.SwapStatusPending, now).
		Update("status", model.SwapStatusFailed)
	return res.RowsAffected, res.Error
}

func (s *store) CountByStatus(tx *gorm.DB, status model.SwapStatus) (int64, error) {
	var count int64
	err := tx.Model(&model.SwapTransaction{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
