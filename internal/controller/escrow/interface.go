package escrow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

// Actor is the authenticated caller of an escrow operation.
type Actor struct {
	UserID string
	Role   model.UserRole
}

func (a Actor) IsStaff() bool {
	return model.IsStaffRole(a.Role)
}

type CreateInput struct {
	Type           model.TradeType
	Cryptocurrency string
	CryptoAmount   decimal.Decimal
	InrAmount      decimal.Decimal
	PaymentMethod  model.EscrowPaymentMethod
	CounterpartyID string
}

type Resolution string

const (
	ResolutionRelease Resolution = "release"
	ResolutionRefund  Resolution = "refund"
)

// EventTrail is the audit log of a trade. BrokenAt is the index of the first
// event whose hash does not chain, set only when Verified is false.
type EventTrail struct {
	Events   []model.EscrowEvent `json:"events"`
	Verified bool                `json:"verified"`
	BrokenAt *int                `json:"brokenAt,omitempty"`
}

type IController interface {
	Create(ctx context.Context, actor Actor, in CreateInput) (*model.EscrowTrade, error)
	Get(ctx context.Context, actor Actor, id int64) (*model.EscrowTrade, error)
	ListMine(ctx context.Context, actor Actor, status model.EscrowStatus) ([]model.EscrowTrade, error)
	ListOpen(ctx context.Context, actor Actor) ([]model.EscrowTrade, error)
	ListAll(ctx context.Context, status model.EscrowStatus) ([]model.EscrowTrade, error)

	Accept(ctx context.Context, actor Actor, id int64) (*model.EscrowTrade, error)
	Fund(ctx context.Context, actor Actor, id int64, txHash string) (*model.EscrowTrade, error)
	ConfirmPayment(ctx context.Context, actor Actor, id int64, paymentProof string) (*model.EscrowTrade, error)
	Dispute(ctx context.Context, actor Actor, id int64, reason string) (*model.EscrowTrade, error)
	Resolve(ctx context.Context, actor Actor, id int64, resolution Resolution, notes string) (*model.EscrowTrade, error)
	Cancel(ctx context.Context, actor Actor, id int64) (*model.EscrowTrade, error)

	// ExpireOverdue cancels created and accepted trades past their deadline
	ExpireOverdue(ctx context.Context) (int, error)

	ListMessages(ctx context.Context, actor Actor, id int64) ([]model.EscrowMessage, error)
	PostMessage(ctx context.Context, actor Actor, id int64, message, attachmentURL string) (*model.EscrowMessage, error)
	Events(ctx context.Context, actor Actor, id int64) (*EventTrail, error)
}
