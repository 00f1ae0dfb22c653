package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type KYCRequest struct {
	KycStatus model.KYCStatus `json:"kycStatus" validate:"required,oneof=pending verified rejected"`
}

type RoleRequest struct {
	Role model.UserRole `json:"role" validate:"required,oneof=user moderator admin"`
}

type handler struct {
	controller account.IController
	logger     *logger.Logger
}

var validate = validation.New()

func New(controller account.IController, logger *logger.Logger) IHandler {
	return &handler{
		controller: controller,
		logger:     logger,
	}
}

// SetKYCStatus godoc
// @Summary Set KYC status
// @id setUserKYCStatus
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body KYCRequest true "KYC status"
// @Success 200 {object} view.Response[model.User]
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /admin/users/{id}/kyc [put]
func (h *handler) SetKYCStatus(c *gin.Context) {
	var req KYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[SetKYCStatus][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[SetKYCStatus][Validator]", err, req)
		return
	}

	user, err := h.controller.SetKYCStatus(c.Request.Context(), c.Param("id"), req.KycStatus)
	if err != nil {
		errs.Respond(c, h.logger, "[SetKYCStatus][SetKYCStatus]", err, req, "can't update kyc status")
		return
	}

	h.logger.Info("[SetKYCStatus] kyc status changed", map[string]string{
		"user_id":    user.ID,
		"kyc_status": string(user.KycStatus),
	})
	c.JSON(http.StatusOK, view.CreateResponse[*model.User](user, nil, nil, ""))
}

// SetRole godoc
// @Summary Set role
// @id setUserRole
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body RoleRequest true "Role"
// @Success 200 {object} view.Response[model.User]
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *handler) SetRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[SetRole][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[SetRole][Validator]", err, req)
		return
	}

	user, err := h.controller.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		errs.Respond(c, h.logger, "[SetRole][SetRole]", err, req, "can't update role")
		return
	}

	h.logger.Info("[SetRole] role changed", map[string]string{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	c.JSON(http.StatusOK, view.CreateResponse[*model.User](user, nil, nil, ""))
}
