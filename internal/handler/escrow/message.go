package escrow

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/escrow"
	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type MessageRequest struct {
	Message       string `json:"message" validate:"required,max=2000"`
	AttachmentURL string `json:"attachmentUrl" validate:"omitempty,url,max=2048"`
}

// ListMessages godoc
// @Summary List trade messages
// @id listEscrowMessages
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Success 200 {object} view.Response[[]model.EscrowMessage]
// @Failure 404 {object} view.ErrorResponse
// @Router /escrow/{id}/messages [get]
func (h *handler) ListMessages(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	messages, err := h.controller.ListMessages(c.Request.Context(), actor(c), id)
	if err != nil {
		errs.Respond(c, h.logger, "[ListEscrowMessages][ListMessages]", err, nil, "can't list messages")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.EscrowMessage](messages, nil, nil, ""))
}

// PostMessage godoc
// @Summary Post trade message
// @id postEscrowMessage
// @Tags Escrow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Param request body MessageRequest true "Message"
// @Success 201 {object} view.Response[model.EscrowMessage]
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /escrow/{id}/messages [post]
func (h *handler) PostMessage(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[PostEscrowMessage][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[PostEscrowMessage][Validator]", err, req)
		return
	}

	message, err := h.controller.PostMessage(c.Request.Context(), actor(c), id, req.Message, req.AttachmentURL)
	if err != nil {
		errs.Respond(c, h.logger, "[PostEscrowMessage][PostMessage]", err, req, "can't post message")
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse[*model.EscrowMessage](message, nil, nil, ""))
}

// Events godoc
// @Summary Trade audit trail
// @Description Hash-chained state changes of a trade and whether the chain verifies
// @id getEscrowEvents
// @Tags Escrow
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trade ID"
// @Success 200 {object} view.Response[escrow.EventTrail]
// @Failure 404 {object} view.ErrorResponse
// @Router /escrow/{id}/events [get]
func (h *handler) Events(c *gin.Context) {
	id, ok := errs.ParamID(c, "id")
	if !ok {
		return
	}

	trail, err := h.controller.Events(c.Request.Context(), actor(c), id)
	if err != nil {
		errs.Respond(c, h.logger, "[GetEscrowEvents][Events]", err, nil, "can't load events")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*escrow.EventTrail](trail, nil, nil, ""))
}
