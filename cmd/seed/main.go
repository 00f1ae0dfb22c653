package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/consts"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

func seedCryptocurrencies(ctx context.Context, db store.DBRepo, s *store.Store) error {
	return db.DoInTx(ctx, func(tx *gorm.DB) error {
		for _, c := range consts.SeedCryptocurrencies {
			minAmount, maxAmount := c.MinSwapAmount, c.MaxSwapAmount
			if err := s.Cryptocurrency.Upsert(tx, &model.Cryptocurrency{
				Symbol:        c.Symbol,
				Name:          c.Name,
				NetworkName:   c.NetworkName,
				Decimals:      c.Decimals,
				IsActive:      true,
				MinSwapAmount: &minAmount,
				MaxSwapAmount: &maxAmount,
				TradingFee:    c.TradingFee,
			}); err != nil {
				return errors.Wrapf(err, "upsert %s", c.Symbol)
			}
		}
		return nil
	})
}

// seedAdmin registers the operator account, or promotes it when the email
// is already taken.
func seedAdmin(ctx context.Context, db store.DBRepo, s *store.Store, accounts account.IController, email, password string) (*model.User, error) {
	session, err := accounts.Register(ctx, account.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Platform",
		LastName:  "Admin",
	})
	var userID string
	switch {
	case err == nil:
		userID = session.User.ID
	case errors.Is(err, model.ErrConflict):
		existing, err := s.User.GetByEmail(db.DB(ctx), email)
		if err != nil {
			return nil, err
		}
		userID = existing.ID
	default:
		return nil, err
	}

	if _, err := accounts.SetKYCStatus(ctx, userID, model.KYCStatusVerified); err != nil {
		return nil, err
	}
	return accounts.SetRole(ctx, userID, model.UserRoleAdmin)
}

func main() {
	adminEmail := flag.String("admin-email", os.Getenv("SEED_ADMIN_EMAIL"), "email of the admin account to create")
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "password of the admin account")
	flag.Parse()

	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := store.NewPostgresStore(appConfig, logger)
	defer db.Close()
	s := store.New()

	if err := seedCryptocurrencies(ctx, db, s); err != nil {
		logger.Fatal("[main][seedCryptocurrencies]", map[string]string{
			"error": err.Error(),
		})
	}
	logger.Info("Cryptocurrencies seeded", map[string]string{
		"count": fmt.Sprintf("%d", len(consts.SeedCryptocurrencies)),
	})

	inserted, err := oracle.New(db, s, logger).EnsureFallbackMarketRates(ctx)
	if err != nil {
		logger.Fatal("[main][EnsureFallbackMarketRates]", map[string]string{
			"error": err.Error(),
		})
	}
	logger.Info("Market rates seeded", map[string]string{
		"inserted": fmt.Sprintf("%d", inserted),
	})

	if *adminEmail == "" || *adminPassword == "" {
		logger.Info("No admin credentials given, skipping admin account")
		return
	}

	// the session issued on register is discarded
	secret := appConfig.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
	}
	tokens := auth.NewTokenManager(secret, appConfig.Auth.TokenTTL)
	admin, err := seedAdmin(ctx, db, s, account.New(db, s, tokens, logger), *adminEmail, *adminPassword)
	if err != nil {
		logger.Fatal("[main][seedAdmin]", map[string]string{
			"error": err.Error(),
		})
	}
	logger.Info("Admin account ready", map[string]string{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
}
