package swap

import "github.com/gin-gonic/gin"

type IHandler interface {
	Quote(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	UpdateStatus(c *gin.Context)
}
