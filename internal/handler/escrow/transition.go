package escrow

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/escrow"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type FundRequest struct {
	TransactionHash string `json:"transactionHash" validate:"max=255"`
}

type ConfirmPaymentRequest struct {
	PaymentProof string `json:"paymentProof" validate:"max=1000"`
}

type DisputeRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type ResolveRequest struct {
	Resolution escrow.Resolution `json:"resolution" validate:"required,oneof=release refund"`
	Notes      string            `json:"notes" validate:"max=2000"`
}

// Accept godoc
// @Summary Accept escrow trade
// @id acceptEscrow
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 403 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /escrow/{id}/accept [post]
func (h *handler) Accept(c *gin.Context) {
	h.transition(c, "[AcceptEscrow]", nil, func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error) {
		return h.controller.Accept(ctx, a, id)
	})
}

// Fund godoc
// @Summary Fund escrow trade
// @Description The seller locks the crypto into the escrow address
// @id fundEscrow
// @Tags Escrow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Param request body FundRequest false "Funding transaction"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 403 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /escrow/{id}/fund [post]
func (h *handler) Fund(c *gin.Context) {
	var req FundRequest
	h.transition(c, "[FundEscrow]", &req, func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error) {
		return h.controller.Fund(ctx, a, id, req.TransactionHash)
	})
}

// ConfirmPayment godoc
// @Summary Confirm payment
// @Description The buyer confirms the INR payment, then the seller confirms receipt and funds are released
// @id confirmEscrowPayment
// @Tags Escrow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Param request body ConfirmPaymentRequest false "Payment proof"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 409 {object} view.ErrorResponse
// @Router /escrow/{id}/confirm-payment [post]
func (h *handler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	h.transition(c, "[ConfirmEscrowPayment]", &req, func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error) {
		return h.controller.ConfirmPayment(ctx, a, id, req.PaymentProof)
	})
}

// Dispute godoc
// @Summary Dispute escrow trade
// @id disputeEscrow
// @Tags Escrow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Param request body DisputeRequest true "Reason"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 409 {object} view.ErrorResponse
// @Router /escrow/{id}/dispute [post]
func (h *handler) Dispute(c *gin.Context) {
	var req DisputeRequest
	h.transition(c, "[DisputeEscrow]", &req, func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error) {
		return h.controller.Dispute(ctx, a, id, req.Reason)
	})
}

// Resolve godoc
// @Summary Resolve dispute
// @Description A moderator releases the crypto to the buyer or refunds the seller
// @id resolveEscrow
// @Tags Escrow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Param request body ResolveRequest true "Resolution"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 403 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /escrow/{id}/resolve [post]
func (h *handler) Resolve(c *gin.Context) {
	var req ResolveRequest
	h.transition(c, "[ResolveEscrow]", &req, func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error) {
		return h.controller.Resolve(ctx, a, id, req.Resolution, req.Notes)
	})
}

// Cancel godoc
// @Summary Cancel escrow trade
// @id cancelEscrow
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 403 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /escrow/{id}/cancel [post]
func (h *handler) Cancel(c *gin.Context) {
	h.transition(c, "[CancelEscrow]", nil, func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error) {
		return h.controller.Cancel(ctx, a, id)
	})
}

// transition binds the optional body into req, then runs the state change.
// An empty body is accepted when req has no required fields.
func (h *handler) transition(
	c *gin.Context,
	tag string,
	req any,
	run func(ctx context.Context, a escrow.Actor, id int64) (*model.EscrowTrade, error),
) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	if req != nil {
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(req); err != nil {
				errs.BadRequest(c, h.logger, tag+"[ShouldBindJSON]", err, req)
				return
			}
		}
		if err := validate.Struct(req); err != nil {
			errs.BadRequest(c, h.logger, tag+"[Validator]", err, req)
			return
		}
	}

	trade, err := run(c.Request.Context(), actor(c), id)
	if err != nil {
		errs.Respond(c, h.logger, tag+"[Transition]", err, req, "can't update escrow trade")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.EscrowTrade](trade, nil, nil, ""))
}
