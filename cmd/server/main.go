package main

import (
	"github.com/dwarvesf/tradeshield-backend/internal/server"
)

// @title TradeShield API
// @version 1.0
// @description Crypto swap, INR on/off-ramp and P2P escrow backend.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	server.Init()
}
