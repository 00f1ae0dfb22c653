package account

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

func (c *controller) ListWallets(ctx context.Context, userID string) ([]model.UserWallet, error) {
	return c.store.UserWallet.ListActiveByUser(c.db.DB(ctx), userID)
}

func (c *controller) CreateWallet(ctx context.Context, userID, cryptocurrency string) (*model.UserWallet, error) {
	symbol := strings.ToUpper(strings.TrimSpace(cryptocurrency))

	db := c.db.DB(ctx)
	currency, err := c.store.Cryptocurrency.GetBySymbol(db, symbol)
	if errors.Is(err, model.ErrNotFound) || (err == nil && !currency.IsActive) {
		return nil, errors.Wrapf(model.ErrInvalidInput, "unsupported cryptocurrency %s", symbol)
	}
	if err != nil {
		return nil, err
	}

	return c.store.UserWallet.Create(db, model.NewUserWallet(userID, symbol))
}
