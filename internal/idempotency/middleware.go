package idempotency

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

const (
	HeaderKey    = "Idempotency-Key"
	HeaderReplay = "Idempotent-Replay"

	DefaultTTL  = 24 * time.Hour
	inFlightTTL = 2 * time.Minute
	maxKeyLen   = 255
)

var errInFlight = errors.Wrap(model.ErrConflict, "a request with this idempotency key is still in progress")

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware replays the stored response of a request that carried the same
// Idempotency-Key for the same user, method and path. It must run after
// auth.RequireAuth. Requests without the header pass through untouched.
func Middleware(store IStore, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, view.CreateResponse[any](nil, model.ErrInvalidInput, nil, "idempotency key too long"))
			return
		}

		ctx := c.Request.Context()
		storeKey := strings.Join([]string{"idem", auth.UserID(c), c.Request.Method, c.Request.URL.Path, key}, ":")

		reserved, err := store.Reserve(ctx, storeKey, inFlightTTL)
		if err != nil {
			logger.Error("[idempotency][Reserve]", map[string]string{
				"key":   storeKey,
				"error": err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "idempotency store unavailable"))
			return
		}

		if !reserved {
			record, err := store.Get(ctx, storeKey)
			if err != nil {
				logger.Error("[idempotency][Get]", map[string]string{
					"key":   storeKey,
					"error": err.Error(),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "idempotency store unavailable"))
				return
			}
			if record == nil || record.Pending {
				c.AbortWithStatusJSON(http.StatusConflict, view.CreateResponse[any](nil, errInFlight, nil, ""))
				return
			}

			c.Header(HeaderReplay, "true")
			c.Data(record.Status, record.ContentType, record.Body)
			c.Abort()
			return
		}

		// the client may be gone by the time the handler returns; the record
		// must still be written
		ctx = context.WithoutCancel(ctx)
		release := func() {
			if err := store.Release(ctx, storeKey); err != nil {
				logger.Error("[idempotency][Release]", map[string]string{
					"key":   storeKey,
					"error": err.Error(),
				})
			}
		}

		// a panicking handler is answered by the recovery middleware; free the
		// key so the client can retry
		defer func() {
			if r := recover(); r != nil {
				release()
				panic(r)
			}
		}()

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			release()
			return
		}

		record := Record{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := store.Save(ctx, storeKey, record, DefaultTTL); err != nil {
			logger.Error("[idempotency][Save]", map[string]string{
				"key":   storeKey,
				"error": err.Error(),
			})
		}
	}
}
