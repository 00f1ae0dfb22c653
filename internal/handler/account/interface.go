package account

import "github.com/gin-gonic/gin"

type IHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)

	ListPaymentMethods(c *gin.Context)
	AddPaymentMethod(c *gin.Context)
	RemovePaymentMethod(c *gin.Context)

	ListWallets(c *gin.Context)
	CreateWallet(c *gin.Context)
}
