package inr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/inr"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type CreateRequest struct {
	PaymentMethodID int64           `json:"paymentMethodId" validate:"required,gt=0"`
	Type            model.TradeType `json:"type" validate:"required,oneof=buy sell"`
	Cryptocurrency  string          `json:"cryptocurrency" validate:"required,max=10"`
	CryptoAmount    decimal.Decimal `json:"cryptoAmount" validate:"decimal_gt0"`
	CryptoAddress   string          `json:"cryptoAddress" validate:"max=255"`
}

type PaymentProofRequest struct {
	PaymentProof string `json:"paymentProof" validate:"required,max=1000"`
}

type UpdateStatusRequest struct {
	Status          model.InrTransactionStatus `json:"status" validate:"required,oneof=confirmed completed failed"`
	TransactionHash string                     `json:"transactionHash" validate:"max=255"`
}

type handler struct {
	controller inr.IController
	logger     *logger.Logger
}

var validate = validation.New()

func New(controller inr.IController, logger *logger.Logger) IHandler {
	return &handler{
		controller: controller,
		logger:     logger,
	}
}

// Create godoc
// @Summary Create INR transaction
// @Description Buys or sells crypto against INR at the current market price
// @id createInrTransaction
// @Tags INR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body CreateRequest true "Order"
// @Success 201 {object} view.Response[model.InrTransaction]
// @Failure 400 {object} view.ErrorResponse
// @Failure 403 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /inr-transaction [post]
func (h *handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateInrTransaction][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateInrTransaction][Validator]", err, req)
		return
	}

	txn, err := h.controller.Create(c.Request.Context(), auth.UserID(c), inr.CreateInput{
		PaymentMethodID: req.PaymentMethodID,
		Type:            req.Type,
		Cryptocurrency:  req.Cryptocurrency,
		CryptoAmount:    req.CryptoAmount,
		CryptoAddress:   req.CryptoAddress,
	})
	if err != nil {
		errs.Respond(c, h.logger, "[CreateInrTransaction][Create]", err, req, "failed to create inr transaction")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[*model.InrTransaction](txn, nil, nil, ""))
}

// Get godoc
// @Summary Get INR transaction
// @id getInrTransaction
// @Tags INR
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} view.Response[model.InrTransaction]
// @Failure 404 {object} view.ErrorResponse
// @Router /inr-transaction/{id} [get]
func (h *handler) Get(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	txn, err := h.controller.Get(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		errs.Respond(c, h.logger, "[GetInrTransaction][Get]", err, nil, "inr transaction not found")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.InrTransaction](txn, nil, nil, ""))
}

// List godoc
// @Summary List INR transactions
// @id listInrTransactions
// @Tags INR
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[[]model.InrTransaction]
// @Router /inr-transactions [get]
func (h *handler) List(c *gin.Context) {
	txns, err := h.controller.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		errs.Respond(c, h.logger, "[ListInrTransactions][List]", err, nil, "can't list inr transactions")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.InrTransaction](txns, nil, nil, ""))
}

// SubmitPaymentProof godoc
// @Summary Submit payment proof
// @Description Marks a pending order as paid
// @id submitInrPaymentProof
// @Tags INR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body PaymentProofRequest true "Proof"
// @Success 200 {object} view.Response[model.InrTransaction]
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /inr-transaction/{id}/payment-proof [post]
func (h *handler) SubmitPaymentProof(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	var req PaymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[SubmitPaymentProof][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[SubmitPaymentProof][Validator]", err, req)
		return
	}

	txn, err := h.controller.SubmitPaymentProof(c.Request.Context(), auth.UserID(c), id, req.PaymentProof)
	if err != nil {
		errs.Respond(c, h.logger, "[SubmitPaymentProof][SubmitPaymentProof]", err, req, "can't submit payment proof")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.InrTransaction](txn, nil, nil, ""))
}

// UpdateStatus godoc
// @Summary Update INR transaction status
// @id updateInrTransactionStatus
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} view.Response[model.InrTransaction]
// @Failure 409 {object} view.ErrorResponse
// @Router /admin/inr-transactions/{id}/status [put]
func (h *handler) UpdateStatus(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[UpdateInrStatus][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[UpdateInrStatus][Validator]", err, req)
		return
	}

	txn, err := h.controller.UpdateStatus(c.Request.Context(), id, req.Status, req.TransactionHash)
	if err != nil {
		errs.Respond(c, h.logger, "[UpdateInrStatus][UpdateStatus]", err, req, "can't update inr transaction")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.InrTransaction](txn, nil, nil, ""))
}
