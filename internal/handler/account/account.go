package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
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

// Register godoc
// @Summary Register
// @Description Creates an account and returns it with an access token
// @id register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} view.Response[account.Session]
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /auth/register [post]
func (h *handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[Register][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[Register][Validator]", err, req)
		return
	}

	session, err := h.controller.Register(c.Request.Context(), account.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		errs.Respond(c, h.logger, "[Register][Register]", err, req, "can't register")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[any](session, nil, nil, ""))
}

// Login godoc
// @Summary Login
// @Description Exchanges credentials for an access token
// @id login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} view.Response[account.Session]
// @Failure 400 {object} view.ErrorResponse
// @Failure 401 {object} view.ErrorResponse
// @Router /auth/login [post]
func (h *handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[Login][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[Login][Validator]", err, req)
		return
	}

	session, err := h.controller.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		errs.Respond(c, h.logger, "[Login][Login]", err, nil, "can't log in")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](session, nil, nil, ""))
}

// Me godoc
// @Summary Current user
// @Description Returns the authenticated user
// @id getCurrentUser
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[model.User]
// @Failure 401 {object} view.ErrorResponse
// @Router /auth/user [get]
func (h *handler) Me(c *gin.Context) {
	user, err := h.controller.Me(c.Request.Context(), auth.UserID(c))
	if err != nil {
		errs.Respond(c, h.logger, "[Me][Me]", err, nil, "can't load user")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.User](user, nil, nil, ""))
}
