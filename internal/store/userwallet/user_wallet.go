package userwallet

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) Create(tx *gorm.DB, wallet *model.UserWallet) (*model.UserWallet, error) {
	err := tx.Create(wallet).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errors.Wrapf(model.ErrConflict, "%s wallet already exists", wallet.Cryptocurrency)
	}
	return wallet, err
}

func (s *store) CreateIfMissing(tx *gorm.DB, wallet *model.UserWallet) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "cryptocurrency"}},
		DoNothing: true,
	}).Create(wallet)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *store) ListActiveByUser(tx *gorm.DB, userID string) ([]model.UserWallet, error) {
	var wallets []model.UserWallet
	err := tx.Where("user_id = ? AND is_active = ?", userID, true).Order("cryptocurrency ASC").Find(&wallets).Error
	return wallets, err
}

func (s *store) GetForUpdate(tx *gorm.DB, userID, cryptocurrency string) (*model.UserWallet, error) {
	var wallet model.UserWallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND cryptocurrency = ?", userID, cryptocurrency).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "%s wallet of %s", cryptocurrency, userID)
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *store) Credit(tx *gorm.DB, id int64, amount decimal.Decimal) error {
	return tx.Model(&model.UserWallet{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}
