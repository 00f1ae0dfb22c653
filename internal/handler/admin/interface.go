package admin

import "github.com/gin-gonic/gin"

type IHandler interface {
	SetKYCStatus(c *gin.Context)
	SetRole(c *gin.Context)
}
