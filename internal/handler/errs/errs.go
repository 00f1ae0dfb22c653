package errs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

var errInternal = errors.New("internal server error")

// Status maps a controller error to the HTTP status it is reported with.
func Status(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden), errors.Is(err, model.ErrKYCRequired):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Respond writes the error envelope for err. Unexpected failures are logged
// under tag and reported without their cause.
func Respond(c *gin.Context, l *logger.Logger, tag string, err error, req any, message string) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		l.Error(tag, map[string]string{
			"error": err.Error(),
			"path":  c.FullPath(),
		})
		err = errInternal
	}
	c.JSON(status, view.CreateResponse[any](nil, err, req, message))
}

// BadRequest reports a body that could not be bound or validated.
func BadRequest(c *gin.Context, l *logger.Logger, tag string, err error, req any) {
	l.Debug(tag, map[string]string{
		"error": err.Error(),
	})
	c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
}

// ParamID reads a positive numeric path parameter. On failure the 400 is
// already written and ok is false.
func ParamID(c *gin.Context, name string) (id int64, ok bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.Wrapf(model.ErrInvalidInput, "invalid %s", name), nil, "invalid request"))
		return 0, false
	}
	return id, true
}
