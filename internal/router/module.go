package router

import "github.com/gin-gonic/gin"

// Module registers one feature area's routes on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
