package swap

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/swap"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type QuoteRequest struct {
	From   string `form:"from" json:"from" validate:"required,max=10"`
	To     string `form:"to" json:"to" validate:"required,max=10,nefield=From"`
	Amount string `form:"amount" json:"amount" validate:"required,decimal_gt0"`
}

type SwapRequest struct {
	FromCurrency  string          `json:"fromCurrency" validate:"required,max=10"`
	ToCurrency    string          `json:"toCurrency" validate:"required,max=10,nefield=FromCurrency"`
	FromAmount    decimal.Decimal `json:"fromAmount" validate:"decimal_gt0"`
	ToAddress     string          `json:"toAddress" validate:"required,max=255"`
	FromAddress   string          `json:"fromAddress" validate:"max=255"`
	RefundAddress string          `json:"refundAddress" validate:"max=255"`
}

type UpdateStatusRequest struct {
	Status          model.SwapStatus `json:"status" validate:"required,oneof=processing completed failed"`
	TransactionHash string           `json:"transactionHash" validate:"max=255"`
}

type handler struct {
	controller swap.IController
	logger     *logger.Logger
}

var validate = validation.New()

func New(controller swap.IController, logger *logger.Logger) IHandler {
	return &handler{
		controller: controller,
		logger:     logger,
	}
}

// Quote godoc
// @Summary Quote a swap
// @Description Prices a swap without creating it
// @id quoteSwap
// @Tags Swap
// @Produce json
// @Param from query string true "Source symbol"
// @Param to query string true "Target symbol"
// @Param amount query string true "Source amount"
// @Success 200 {object} view.Response[swap.Quote]
// @Failure 400 {object} view.ErrorResponse
// @Router /swap/quote [get]
func (h *handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errs.BadRequest(c, h.logger, "[Quote][ShouldBindQuery]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[Quote][Validator]", err, req)
		return
	}

	quote, err := h.controller.Quote(c.Request.Context(), req.From, req.To, decimal.RequireFromString(req.Amount))
	if err != nil {
		errs.Respond(c, h.logger, "[Quote][Quote]", err, req, "can't quote swap")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*swap.Quote](quote, nil, nil, ""))
}

// Create godoc
// @Summary Create swap
// @Description Records a crypto-to-crypto swap at the current rate
// @id createSwap
// @Tags Swap
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body SwapRequest true "Swap request parameters"
// @Success 201 {object} view.Response[model.SwapTransaction]
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /swap [post]
func (h *handler) Create(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateSwap][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateSwap][Validator]", err, req)
		return
	}

	record, err := h.controller.Create(c.Request.Context(), auth.UserID(c), swap.CreateInput{
		FromCurrency:  req.FromCurrency,
		ToCurrency:    req.ToCurrency,
		FromAmount:    req.FromAmount,
		ToAddress:     req.ToAddress,
		FromAddress:   req.FromAddress,
		RefundAddress: req.RefundAddress,
	})
	if err != nil {
		errs.Respond(c, h.logger, "[CreateSwap][Create]", err, req, "failed to create swap")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[*model.SwapTransaction](record, nil, nil, ""))
}

// Get godoc
// @Summary Get swap
// @id getSwap
// @Tags Swap
// @Produce json
// @Security BearerAuth
// @Param id path int true "Swap ID"
// @Success 200 {object} view.Response[model.SwapTransaction]
// @Failure 404 {object} view.ErrorResponse
// @Router /swap/{id} [get]
func (h *handler) Get(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	record, err := h.controller.Get(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		errs.Respond(c, h.logger, "[GetSwap][Get]", err, nil, "swap not found")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.SwapTransaction](record, nil, nil, ""))
}

// List godoc
// @Summary List swaps
// @Description The caller's swaps, newest first
// @id listSwaps
// @Tags Swap
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[[]model.SwapTransaction]
// @Router /swaps [get]
func (h *handler) List(c *gin.Context) {
	records, err := h.controller.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		errs.Respond(c, h.logger, "[ListSwaps][List]", err, nil, "can't list swaps")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.SwapTransaction](records, nil, nil, ""))
}

// UpdateStatus godoc
// @Summary Update swap status
// @Description Moves a swap through processing to completed or failed
// @id updateSwapStatus
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Swap ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} view.Response[model.SwapTransaction]
// @Failure 409 {object} view.ErrorResponse
// @Router /admin/swaps/{id}/status [put]
func (h *handler) UpdateStatus(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[UpdateSwapStatus][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[UpdateSwapStatus][Validator]", err, req)
		return
	}

	record, err := h.controller.UpdateStatus(c.Request.Context(), id, req.Status, req.TransactionHash)
	if err != nil {
		errs.Respond(c, h.logger, "[UpdateSwapStatus][UpdateStatus]", err, req, "can't update swap")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.SwapTransaction](record, nil, nil, ""))
}
