package escrow

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/escrow"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type CreateRequest struct {
	Type           model.TradeType           `json:"type" validate:"required,oneof=buy sell"`
	Cryptocurrency string                    `json:"cryptocurrency" validate:"required,max=10"`
	CryptoAmount   decimal.Decimal           `json:"cryptoAmount" validate:"decimal_gt0"`
	InrAmount      decimal.Decimal           `json:"inrAmount" validate:"decimal_gt0"`
	PaymentMethod  model.EscrowPaymentMethod `json:"paymentMethod" validate:"required,oneof=upi bank_transfer imps"`
	CounterpartyID string                    `json:"counterpartyId" validate:"max=64"`
}

type ListQuery struct {
	Status model.EscrowStatus `form:"status" validate:"omitempty,oneof=created accepted funded paid dispute completed cancelled"`
}

type handler struct {
	controller escrow.IController
	logger     *logger.Logger
}

var validate = validation.New()

func New(controller escrow.IController, logger *logger.Logger) IHandler {
	return &handler{
		controller: controller,
		logger:     logger,
	}
}

func actor(c *gin.Context) escrow.Actor {
	return escrow.Actor{UserID: auth.UserID(c), Role: auth.Role(c)}
}

// Create godoc
// @Summary Create escrow trade
// @Description Opens a peer-to-peer crypto for INR trade, optionally with a named counterparty
// @id createEscrow
// @Tags Escrow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body CreateRequest true "Trade terms"
// @Success 201 {object} view.Response[model.EscrowTrade]
// @Failure 400 {object} view.ErrorResponse
// @Failure 403 {object} view.ErrorResponse
// @Router /escrow [post]
func (h *handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateEscrow][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateEscrow][Validator]", err, req)
		return
	}

	trade, err := h.controller.Create(c.Request.Context(), actor(c), escrow.CreateInput{
		Type:           req.Type,
		Cryptocurrency: req.Cryptocurrency,
		CryptoAmount:   req.CryptoAmount,
		InrAmount:      req.InrAmount,
		PaymentMethod:  req.PaymentMethod,
		CounterpartyID: req.CounterpartyID,
	})
	if err != nil {
		errs.Respond(c, h.logger, "[CreateEscrow][Create]", err, req, "failed to create escrow trade")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[*model.EscrowTrade](trade, nil, nil, ""))
}

// Get godoc
// @Summary Get escrow trade
// @Description Visible to the parties and to moderators
// @id getEscrow
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Success 200 {object} view.Response[model.EscrowTrade]
// @Failure 404 {object} view.ErrorResponse
// @Router /escrow/{id} [get]
func (h *handler) Get(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	trade, err := h.controller.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		errs.Respond(c, h.logger, "[GetEscrow][Get]", err, nil, "escrow trade not found")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.EscrowTrade](trade, nil, nil, ""))
}

// ListMine godoc
// @Summary List my escrow trades
// @id listMyEscrows
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} view.Response[[]model.EscrowTrade]
// @Router /escrows [get]
func (h *handler) ListMine(c *gin.Context) {
	query, ok := h.bindListQuery(c, "[ListMyEscrows]")
	if !ok {
		return
	}

	trades, err := h.controller.ListMine(c.Request.Context(), actor(c), query.Status)
	if err != nil {
		errs.Respond(c, h.logger, "[ListMyEscrows][ListMine]", err, nil, "can't list escrow trades")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.EscrowTrade](trades, nil, nil, ""))
}

// ListOpen godoc
// @Summary List open escrow trades
// @Description Created trades without a counterparty, excluding the caller's own
// @id listOpenEscrows
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[[]model.EscrowTrade]
// @Router /escrows/open [get]
func (h *handler) ListOpen(c *gin.Context) {
	trades, err := h.controller.ListOpen(c.Request.Context(), actor(c))
	if err != nil {
		errs.Respond(c, h.logger, "[ListOpenEscrows][ListOpen]", err, nil, "can't list escrow trades")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.EscrowTrade](trades, nil, nil, ""))
}

// ListAll godoc
// @Summary List all escrow trades
// @id listAllEscrows
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} view.Response[[]model.EscrowTrade]
// @Failure 403 {object} view.ErrorResponse
// @Router /admin/escrows [get]
func (h *handler) ListAll(c *gin.Context) {
	query, ok := h.bindListQuery(c, "[ListAllEscrows]")
	if !ok {
		return
	}

	trades, err := h.controller.ListAll(c.Request.Context(), query.Status)
	if err != nil {
		errs.Respond(c, h.logger, "[ListAllEscrows][ListAll]", err, nil, "can't list escrow trades")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.EscrowTrade](trades, nil, nil, ""))
}

func (h *handler) bindListQuery(c *gin.Context, tag string) (ListQuery, bool) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errs.BadRequest(c, h.logger, tag+"[ShouldBindQuery]", err, query)
		return query, false
	}
	if err := validate.Struct(query); err != nil {
		errs.BadRequest(c, h.logger, tag+"[Validator]", err, query)
		return query, false
	}
	return query, true
}
