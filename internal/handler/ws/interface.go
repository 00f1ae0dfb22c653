package ws

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IHandler interface {
	// MarketRates upgrades the request and streams rate snapshots to it
	MarketRates(c *gin.Context)

	// BroadcastRates pushes a snapshot to every connected client
	BroadcastRates(rates []model.MarketRate)

	Clients() int
	Close()
}
