package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/tradeshield-backend/internal/auth"
	"github.com/dwarvesf/tradeshield-backend/internal/handler"
	"github.com/dwarvesf/tradeshield-backend/internal/idempotency"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

func loadApiRoutes(r *gin.Engine, h *handler.Handler, deps Deps, logger *logger.Logger) {
	api := r.Group("/api")

	health := api.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/external", h.HealthHandler.External)
		health.GET("/jobs", h.HealthHandler.Jobs)
	}

	// public
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.AccountHandler.Register)
		authGroup.POST("/login", h.AccountHandler.Login)
	}
	api.GET("/cryptocurrencies", h.MarketHandler.ListCryptocurrencies)
	api.GET("/market-rates", h.MarketHandler.ListMarketRates)
	api.GET("/exchange-rate/:from/:to", h.MarketHandler.GetExchangeRate)
	api.GET("/swap/quote", h.SwapHandler.Quote)

	// authenticated
	user := api.Group("", auth.RequireAuth(deps.Tokens, deps.Roles))
	idem := idempotency.Middleware(deps.Idempotency, logger)
	{
		user.GET("/auth/user", h.AccountHandler.Me)

		user.GET("/payment-methods", h.AccountHandler.ListPaymentMethods)
		user.POST("/payment-methods", h.AccountHandler.AddPaymentMethod)
		user.DELETE("/payment-methods/:id", h.AccountHandler.RemovePaymentMethod)

		user.GET("/wallets", h.AccountHandler.ListWallets)
		user.POST("/wallets", h.AccountHandler.CreateWallet)

		user.POST("/swap", idem, h.SwapHandler.Create)
		user.GET("/swap/:id", h.SwapHandler.Get)
		user.GET("/swaps", h.SwapHandler.List)

		user.POST("/inr-transaction", idem, h.InrHandler.Create)
		user.GET("/inr-transaction/:id", h.InrHandler.Get)
		user.GET("/inr-transactions", h.InrHandler.List)
		user.POST("/inr-transaction/:id/payment-proof", h.InrHandler.SubmitPaymentProof)

		user.POST("/escrow", idem, h.EscrowHandler.Create)
		user.GET("/escrow/:id", h.EscrowHandler.Get)
		user.GET("/escrows", h.EscrowHandler.ListMine)
		user.GET("/escrows/open", h.EscrowHandler.ListOpen)
		user.POST("/escrow/:id/accept", h.EscrowHandler.Accept)
		user.POST("/escrow/:id/fund", h.EscrowHandler.Fund)
		user.POST("/escrow/:id/confirm-payment", h.EscrowHandler.ConfirmPayment)
		user.POST("/escrow/:id/dispute", h.EscrowHandler.Dispute)
		user.POST("/escrow/:id/cancel", h.EscrowHandler.Cancel)
		user.POST("/escrow/:id/resolve", auth.RequireRole(model.UserRoleModerator, model.UserRoleAdmin), h.EscrowHandler.Resolve)
		user.GET("/escrow/:id/messages", h.EscrowHandler.ListMessages)
		user.POST("/escrow/:id/messages", h.EscrowHandler.PostMessage)
		user.GET("/escrow/:id/events", h.EscrowHandler.Events)
	}

	staff := user.Group("/admin", auth.RequireRole(model.UserRoleModerator, model.UserRoleAdmin))
	{
		staff.GET("/escrows", h.EscrowHandler.ListAll)
		staff.PUT("/swaps/:id/status", h.SwapHandler.UpdateStatus)
		staff.PUT("/inr-transactions/:id/status", h.InrHandler.UpdateStatus)
	}

	admin := user.Group("/admin", auth.RequireRole(model.UserRoleAdmin))
	{
		admin.PUT("/users/:id/kyc", h.AdminHandler.SetKYCStatus)
		admin.PUT("/users/:id/role", h.AdminHandler.SetRole)
		admin.PUT("/market-rates/:symbol", h.MarketHandler.UpsertMarketRate)
	}
}
