package market

import "github.com/gin-gonic/gin"

type IHandler interface {
	ListCryptocurrencies(c *gin.Context)
	ListMarketRates(c *gin.Context)
	GetExchangeRate(c *gin.Context)
	UpsertMarketRate(c *gin.Context)
}
