package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type CreateWalletRequest struct {
	Cryptocurrency string `json:"cryptocurrency" validate:"required,min=2,max=10"`
}

// ListWallets godoc
// @Summary List wallets
// @Description Returns the caller's custodial wallets
// @id listWallets
// @Tags Wallets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[[]model.UserWallet]
// @Router /wallets [get]
func (h *handler) ListWallets(c *gin.Context) {
	wallets, err := h.controller.ListWallets(c.Request.Context(), auth.UserID(c))
	if err != nil {
		errs.Respond(c, h.logger, "[ListWallets][ListWallets]", err, nil, "can't list wallets")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.UserWallet](wallets, nil, nil, ""))
}

// CreateWallet godoc
// @Summary Create wallet
// @Description Opens a custodial wallet for one cryptocurrency
// @id createWallet
// @Tags Wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateWalletRequest true "Wallet currency"
// @Success 201 {object} view.Response[model.UserWallet]
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /wallets [post]
func (h *handler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateWallet][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[CreateWallet][Validator]", err, req)
		return
	}

	wallet, err := h.controller.CreateWallet(c.Request.Context(), auth.UserID(c), req.Cryptocurrency)
	if err != nil {
		errs.Respond(c, h.logger, "[CreateWallet][CreateWallet]", err, req, "can't create wallet")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[*model.UserWallet](wallet, nil, nil, ""))
}
