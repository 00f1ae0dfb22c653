package inrpaymentmethod

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) Create(tx *gorm.DB, method *model.InrPaymentMethod) (*model.InrPaymentMethod, error) {
	return method, tx.Create(method).Error
}

func (s *store) ListActiveByUser(tx *gorm.DB, userID string) ([]model.InrPaymentMethod, error) {
	var methods []model.InrPaymentMethod
	err := tx.Where("user_id = ? AND is_active = ?", userID, true).Order("created_at DESC").Find(&methods).Error
	return methods, err
}

func (s *store) GetActiveByIDForUser(tx *gorm.DB, id int64, userID string) (*model.InrPaymentMethod, error) {
	var method model.InrPaymentMethod
	err := tx.Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "payment method %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (s *store) Deactivate(tx *gorm.DB, id int64, userID string) error {
	res := tx.Model(&model.InrPaymentMethod{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "payment method %d", id)
	}
	return nil
}
