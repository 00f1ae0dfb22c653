package account

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

const referralCodeLength = 8

type controller struct {
	db     store.DBRepo
	store  *store.Store
	tokens *auth.TokenManager
	logger *logger.Logger
}

func New(db store.DBRepo, s *store.Store, tokens *auth.TokenManager, logger *logger.Logger) IController {
	return &controller{
		db:     db,
		store:  s,
		tokens: tokens,
		logger: logger,
	}
}

func (c *controller) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "email is required")
	}

	db := c.db.DB(ctx)
	_, err := c.store.User.GetByEmail(db, email)
	if err == nil {
		return nil, errors.Wrap(model.ErrConflict, "email already registered")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := c.store.User.Create(db, &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		KycStatus:    model.KYCStatusPending,
		ReferralCode: newReferralCode(),
		Role:         model.UserRoleUser,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	c.logger.Info("[Register] user created", map[string]string{"user_id": user.ID})
	return c.session(user)
}

func (c *controller) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := c.store.User.GetByEmail(c.db.DB(ctx), normalizeEmail(email))
	if errors.Is(err, model.ErrNotFound) {
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid email or password")
	}
	return c.session(user)
}

func (c *controller) Me(ctx context.Context, userID string) (*model.User, error) {
	return c.store.User.GetByID(c.db.DB(ctx), userID)
}

func (c *controller) SetKYCStatus(ctx context.Context, userID string, status model.KYCStatus) (*model.User, error) {
	switch status {
	case model.KYCStatusPending, model.KYCStatusVerified, model.KYCStatusRejected:
	default:
		return nil, errors.Wrapf(model.ErrInvalidInput, "unknown kyc status %q", status)
	}

	db := c.db.DB(ctx)
	if err := c.store.User.UpdateKYCStatus(db, userID, status); err != nil {
		return nil, err
	}
	return c.store.User.GetByID(db, userID)
}

func (c *controller) SetRole(ctx context.Context, userID string, role model.UserRole) (*model.User, error) {
	switch role {
	case model.UserRoleUser, model.UserRoleModerator, model.UserRoleAdmin:
	default:
		return nil, errors.Wrapf(model.ErrInvalidInput, "unknown role %q", role)
	}

	db := c.db.DB(ctx)
	if err := c.store.User.UpdateRole(db, userID, role); err != nil {
		return nil, err
	}
	return c.store.User.GetByID(db, userID)
}

func (c *controller) session(user *model.User) (*Session, error) {
	token, err := c.tokens.Issue(user)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:referralCodeLength])
}
