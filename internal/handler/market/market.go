package market

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/handler/errs"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/store"
	"github.com/dwarvesf/tradeshield-backend/internal/store/cryptocurrency"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/validation"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

type ExchangeRateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

type UpsertMarketRateRequest struct {
	PriceUsd  decimal.Decimal `json:"priceUsd" validate:"decimal_gt0"`
	PriceInr  decimal.Decimal `json:"priceInr" validate:"decimal_gt0"`
	Change24h decimal.Decimal `json:"change24h"`
	Volume24h decimal.Decimal `json:"volume24h"`
}

type handler struct {
	db              store.DBRepo
	cryptocurrency  cryptocurrency.IStore
	oracle          oracle.IOracle
	metricsRecorder *monitoring.BusinessMetricsRecorder
	logger          *logger.Logger
}

var validate = validation.New()

func New(
	db store.DBRepo,
	cryptocurrency cryptocurrency.IStore,
	oracle oracle.IOracle,
	metricsRecorder *monitoring.BusinessMetricsRecorder,
	logger *logger.Logger,
) IHandler {
	return &handler{
		db:              db,
		cryptocurrency:  cryptocurrency,
		oracle:          oracle,
		metricsRecorder: metricsRecorder,
		logger:          logger,
	}
}

// ListCryptocurrencies godoc
// @Summary List cryptocurrencies
// @Description Active cryptocurrencies ordered by name
// @id listCryptocurrencies
// @Tags Market
// @Produce json
// @Success 200 {object} view.Response[[]model.Cryptocurrency]
// @Failure 500 {object} view.ErrorResponse
// @Router /cryptocurrencies [get]
func (h *handler) ListCryptocurrencies(c *gin.Context) {
	currencies, err := h.cryptocurrency.ListActive(h.db.DB(c.Request.Context()))
	if err != nil {
		errs.Respond(c, h.logger, "[ListCryptocurrencies][ListActive]", err, nil, "can't list cryptocurrencies")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.Cryptocurrency](currencies, nil, nil, ""))
}

// ListMarketRates godoc
// @Summary List market rates
// @Description Latest USD and INR prices, newest first
// @id listMarketRates
// @Tags Market
// @Produce json
// @Success 200 {object} view.Response[[]model.MarketRate]
// @Failure 500 {object} view.ErrorResponse
// @Router /market-rates [get]
func (h *handler) ListMarketRates(c *gin.Context) {
	start := time.Now()
	rates, err := h.oracle.GetMarketRates(c.Request.Context())
	h.recordOracle("market_rates", err, start)
	if err != nil {
		errs.Respond(c, h.logger, "[ListMarketRates][GetMarketRates]", err, nil, "can't get market rates")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.MarketRate](rates, nil, nil, ""))
}

// GetExchangeRate godoc
// @Summary Get exchange rate
// @Description Units of `to` bought by one unit of `from`. Unknown pairs fall back to static rates.
// @id getExchangeRate
// @Tags Market
// @Produce json
// @Param from path string true "Source symbol"
// @Param to path string true "Target symbol"
// @Success 200 {object} view.Response[ExchangeRateResponse]
// @Router /exchange-rate/{from}/{to} [get]
func (h *handler) GetExchangeRate(c *gin.Context) {
	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))

	start := time.Now()
	rate := h.oracle.GetExchangeRate(c.Request.Context(), from, to)
	h.recordOracle("exchange_rate", nil, start)

	c.JSON(http.StatusOK, view.CreateResponse[ExchangeRateResponse](ExchangeRateResponse{
		From: from,
		To:   to,
		Rate: rate,
	}, nil, nil, ""))
}

// UpsertMarketRate godoc
// @Summary Set market rate
// @Description Stores the price of a symbol and pushes the new snapshot to websocket subscribers
// @id upsertMarketRate
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param symbol path string true "Symbol"
// @Param request body UpsertMarketRateRequest true "Prices"
// @Success 200 {object} view.Response[model.MarketRate]
// @Failure 400 {object} view.ErrorResponse
// @Failure 403 {object} view.ErrorResponse
// @Router /admin/market-rates/{symbol} [put]
func (h *handler) UpsertMarketRate(c *gin.Context) {
	var req UpsertMarketRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.BadRequest(c, h.logger, "[UpsertMarketRate][ShouldBindJSON]", err, req)
		return
	}
	if err := validate.Struct(req); err != nil {
		errs.BadRequest(c, h.logger, "[UpsertMarketRate][Validator]", err, req)
		return
	}

	start := time.Now()
	rate, err := h.oracle.UpsertMarketRate(c.Request.Context(), &model.MarketRate{
		Symbol:    strings.ToUpper(strings.TrimSpace(c.Param("symbol"))),
		PriceUsd:  req.PriceUsd,
		PriceInr:  req.PriceInr,
		Change24h: req.Change24h,
		Volume24h: req.Volume24h,
	})
	h.recordOracle("upsert_market_rate", err, start)
	if err != nil {
		errs.Respond(c, h.logger, "[UpsertMarketRate][UpsertMarketRate]", err, req, "can't update market rate")
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[*model.MarketRate](rate, nil, nil, ""))
}

func (h *handler) recordOracle(operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metricsRecorder.RecordOracleOperation(operation, status, time.Since(start).Seconds())
}
