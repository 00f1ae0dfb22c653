package escrow

import "github.com/gin-gonic/gin"

type IHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListMine(c *gin.Context)
	ListOpen(c *gin.Context)
	ListAll(c *gin.Context)

	Accept(c *gin.Context)
	Fund(c *gin.Context)
	ConfirmPayment(c *gin.Context)
	Dispute(c *gin.Context)
	Resolve(c *gin.Context)
	Cancel(c *gin.Context)

	ListMessages(c *gin.Context)
	PostMessage(c *gin.Context)
	Events(c *gin.Context)
}
