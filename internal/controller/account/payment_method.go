package account

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
)

type upiDetails struct {
	UpiID string `json:"upiId" validate:"required,upi_id"`
}

type bankDetails struct {
	AccountNumber     string `json:"accountNumber" validate:"required,numeric,min=9,max=18"`
	IfscCode          string `json:"ifscCode" validate:"required,ifsc"`
	AccountHolderName string `json:"accountHolderName" validate:"required,min=2,max=100"`
	BankName          string `json:"bankName" validate:"max=100"`
}

type cardDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required,credit_card"`
	CardHolderName string `json:"cardHolderName" validate:"required,min=2,max=100"`
}

var validate = validation.New()

func (c *controller) ListPaymentMethods(ctx context.Context, userID string) ([]model.InrPaymentMethod, error) {
	return c.store.InrPaymentMethod.ListActiveByUser(c.db.DB(ctx), userID)
}

func (c *controller) AddPaymentMethod(ctx context.Context, userID string, in PaymentMethodInput) (*model.InrPaymentMethod, error) {
	details, err := cleanDetails(in.Type, in.Details)
	if err != nil {
		return nil, err
	}

	method, err := c.store.InrPaymentMethod.Create(c.db.DB(ctx), &model.InrPaymentMethod{
		UserID:   userID,
		Type:     in.Type,
		Details:  details,
		IsActive: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create payment method")
	}
	return method, nil
}

func (c *controller) RemovePaymentMethod(ctx context.Context, userID string, id int64) error {
	return c.store.InrPaymentMethod.Deactivate(c.db.DB(ctx), id, userID)
}

// cleanDetails keeps only the fields that belong to the method type and
// validates them. Validation failures come back as validator.ValidationErrors.
func cleanDetails(kind model.PaymentMethodType, in model.PaymentMethodDetails) (model.PaymentMethodDetails, error) {
	switch kind {
	case model.PaymentMethodUPI:
		d := upiDetails{UpiID: strings.TrimSpace(in.UpiID)}
		if err := validate.Struct(d); err != nil {
			return model.PaymentMethodDetails{}, err
		}
		return model.PaymentMethodDetails{UpiID: d.UpiID}, nil

	case model.PaymentMethodBankTransfer, model.PaymentMethodIMPS:
		d := bankDetails{
			AccountNumber:     strings.TrimSpace(in.AccountNumber),
			IfscCode:          strings.ToUpper(strings.TrimSpace(in.IfscCode)),
			AccountHolderName: strings.TrimSpace(in.AccountHolderName),
			BankName:          strings.TrimSpace(in.BankName),
		}
		if err := validate.Struct(d); err != nil {
			return model.PaymentMethodDetails{}, err
		}
		return model.PaymentMethodDetails{
			AccountNumber:     d.AccountNumber,
			IfscCode:          d.IfscCode,
			AccountHolderName: d.AccountHolderName,
			BankName:          d.BankName,
		}, nil

	case model.PaymentMethodCard:
		d := cardDetails{
			CardNumber:     strings.NewReplacer(" ", "", "-", "").Replace(in.CardNumber),
			CardHolderName: strings.TrimSpace(in.CardHolderName),
		}
		if err := validate.Struct(d); err != nil {
			return model.PaymentMethodDetails{}, err
		}
		return model.PaymentMethodDetails{
			CardNumber:     maskCardNumber(d.CardNumber),
			CardHolderName: d.CardHolderName,
		}, nil
	}

	return model.PaymentMethodDetails{}, errors.Wrapf(model.ErrInvalidInput, "unknown payment method type %q", kind)
}

func maskCardNumber(number string) string {
	return "**** **** **** " + number[len(number)-4:]
}
