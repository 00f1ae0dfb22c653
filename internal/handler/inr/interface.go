package inr

import "github.com/gin-gonic/gin"

type IHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	SubmitPaymentProof(c *gin.Context)
	UpdateStatus(c *gin.Context)
}
