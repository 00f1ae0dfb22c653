package inrtransaction

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

func (s *store) Create(tx *gorm.DB, txn *model.InrTransaction) (*model.InrTransaction, error) {
	return txn, tx.Create(txn).Error
}

func (s *store) GetByIDForUser(tx *gorm.DB, id int64, userID string) (*model.InrTransaction, error) {
	var txn model.InrTransaction
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "inr transaction %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *store) GetByIDForUpdate(tx *gorm.DB, id int64) (*model.InrTransaction, error) {
	var txn model.InrTransaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "inr transaction %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *store) ListByUser(tx *gorm.DB, userID string) ([]model.InrTransaction, error) {
	var txns []model.InrTransaction
	err := tx.Where("user_id = ?", userID).Order("created_at DESC").Find(&txns).Error
	return txns, err
}

func (s *store) UpdateStatus(tx *gorm.DB, id int64, from model.InrTransactionStatus, fields map[string]interface{}) error {
	res := tx.Model(&model.InrTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrInvalidTransition, "inr transaction %d is no longer %s", id, from)
	}
	return nil
}

func (s *store) ExpirePending(tx *gorm.DB, now time.Time) (int64, error) {
	res := tx.Model(&model.InrTransaction{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.InrStatusPending, now).
		Update("status", model.InrStatusFailed)
	return res.RowsAffected, res.Error
}

func (s *store) CountByStatus(tx *gorm.DB, status model.InrTransactionStatus) (int64, error) {
	var count int64
	err := tx.Model(&model.InrTransaction{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
