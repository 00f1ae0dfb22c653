package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type PaymentMethodRequest struct {
	Type    model.PaymentMethodType    `json:"type" validate:"required,oneof=upi bank_transfer imps card"`
	Details model.PaymentMethodDetails `json:"details"`
}

// ListPaymentMethods godoc
// @Summary List payment methods
// @Description Returns the caller's active INR payment methods
// @id listPaymentMethods
// @Tags PaymentMethods
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[[]model.InrPaymentMethod]
// @Router /payment-methods [get]
func (h *handler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.controller.ListPaymentMethods(c.Request.Context(), auth.UserID(c))
	if err != nil {
		errs.Respond(c, h.logger, "[ListPaymentMethods][ListPaymentMethods]", err, nil, "can't list payment methods")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.InrPaymentMethod](methods, nil, nil, ""))
}

// AddPaymentMethod godoc
// @Summary Add payment method
// @Description Stores a UPI, bank or card method. Card numbers are kept masked.
// @id addPaymentMethod
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PaymentMethodRequest true "Payment method"
// @Success 201 {object} view.Response[model.InrPaymentMethod]
// @Failure 400 {object} view.ErrorResponse
// @Router /payment-methods [post]
func (h *handler) AddPaymentMethod(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[AddPaymentMethod][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[AddPaymentMethod][Validator]", err, req)
		return
	}

	method, err := h.controller.AddPaymentMethod(c.Request.Context(), auth.UserID(c), account.PaymentMethodInput{
		Type:    req.Type,
		Details: req.Details,
	})
	if err != nil {
		errs.Respond(c, h.logger, "[AddPaymentMethod][AddPaymentMethod]", err, req.Details, "can't add payment method")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[*model.InrPaymentMethod](method, nil, nil, ""))
}

// RemovePaymentMethod godoc
// @Summary Remove payment method
// @Description Deactivates one of the caller's payment methods
// @id removePaymentMethod
// @Tags PaymentMethods
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment method ID"
// @Success 200 {object} view.MessageResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /payment-methods/{id} [delete]
func (h *handler) RemovePaymentMethod(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.controller.RemovePaymentMethod(c.Request.Context(), auth.UserID(c), id); err != nil {
		errs.Respond(c, h.logger, "[RemovePaymentMethod][RemovePaymentMethod]", err, nil, "can't remove payment method")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](nil, nil, nil, "payment method removed"))
}
