package user

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) Create(tx *gorm.DB, user *model.User) (*model.User, error) {
	user.Email = strings.ToLower(user.Email)
	err := tx.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errors.Wrap(model.ErrConflict, "email already registered")
	}
	return user, err
}

func (s *store) GetByID(tx *gorm.DB, id string) (*model.User, error) {
	var user model.User
	err := tx.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "user %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) GetByEmail(tx *gorm.DB, email string) (*model.User, error) {
	var user model.User
	err := tx.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(model.ErrNotFound, "user by email")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) UpdateKYCStatus(tx *gorm.DB, id string, status model.KYCStatus) error {
	return s.updateOne(tx, id, map[string]interface{}{"kyc_status": status})
}

func (s *store) UpdateRole(tx *gorm.DB, id string, role model.UserRole) error {
	return s.updateOne(tx, id, map[string]interface{}{"role": role})
}

func (s *store) updateOne(tx *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := tx.Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "user %s", id)
	}
	return nil
}
