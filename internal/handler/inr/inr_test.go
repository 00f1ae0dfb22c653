package inr

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/inr"
	"github.com/dwarvesf/tradeshield-backend/internal/controller/mocks"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

func setupRouter(ctrl *mocks.Inr) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(ctrl, logger.New(environments.Test))

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(auth.ContextUserID, "user-1")
	})
	api.POST("/inr-transaction", h.Create)
	api.GET("/inr-transaction/:id", h.Get)
	api.GET("/inr-transactions", h.List)
	api.POST("/inr-transaction/:id/payment-proof", h.SubmitPaymentProof)
	api.PUT("/admin/inr-transactions/:id/status", h.UpdateStatus)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "created", body: `{"paymentMethodId":5,"type":"buy","cryptocurrency":"BTC","cryptoAmount":"0.01"}`, wantStatus: http.StatusCreated},
		{name: "kyc required", body: `{"paymentMethodId":5,"type":"buy","cryptocurrency":"BTC","cryptoAmount":"0.01"}`, err: model.ErrKYCRequired, wantStatus: http.StatusForbidden},
		{name: "foreign payment method", body: `{"paymentMethodId":5,"type":"sell","cryptocurrency":"BTC","cryptoAmount":"0.01"}`, err: errors.Wrap(model.ErrNotFound, "payment method 5"), wantStatus: http.StatusNotFound},
		{name: "bad type", body: `{"paymentMethodId":5,"type":"hold","cryptocurrency":"BTC","cryptoAmount":"0.01"}`, wantStatus: http.StatusBadRequest},
		{name: "missing method", body: `{"type":"buy","cryptocurrency":"BTC","cryptoAmount":"0.01"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &mocks.Inr{}
			if tt.err != nil {
				ctrl.On("Create", mock.Anything, "user-1", mock.Anything).Return(nil, tt.err)
			} else {
				ctrl.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(in inr.CreateInput) bool {
					return in.PaymentMethodID == 5 && in.CryptoAmount.Equal(decimal.RequireFromString("0.01"))
				})).Return(&model.InrTransaction{ID: 1, Status: model.InrStatusPending}, nil)
			}

			w := serve(setupRouter(ctrl), http.MethodPost, "/api/inr-transaction", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubmitPaymentProof(t *testing.T) {
	ctrl := &mocks.Inr{}
	ctrl.On("SubmitPaymentProof", mock.Anything, "user-1", int64(7), "UTR998").
		Return(&model.InrTransaction{ID: 7, Status: model.InrStatusPaid}, nil)
	r := setupRouter(ctrl)

	w := serve(r, http.MethodPost, "/api/inr-transaction/7/payment-proof", `{"paymentProof":"UTR998"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"paid"`)

	w = serve(r, http.MethodPost, "/api/inr-transaction/7/payment-proof", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_RejectsPaid(t *testing.T) {
	ctrl := &mocks.Inr{}

	w := serve(setupRouter(ctrl), http.MethodPut, "/api/admin/inr-transactions/7/status", `{"status":"paid"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ctrl.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAndList(t *testing.T) {
	ctrl := &mocks.Inr{}
	ctrl.On("Get", mock.Anything, "user-1", int64(9)).Return(nil, errors.Wrap(model.ErrNotFound, "inr transaction 9"))
	ctrl.On("List", mock.Anything, "user-1").Return([]model.InrTransaction{}, nil)
	r := setupRouter(ctrl)

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/inr-transaction/9", "").Code)

	w := serve(r, http.MethodGet, "/api/inr-transactions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}
