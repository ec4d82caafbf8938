package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/pkg/response"
)

// Registry collects the feature modules mounted under /api.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every module and answers unknown routes with the error
// envelope instead of gin's plain-text 404.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.HandleMethodNotAllowed = true
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found", nil)
	})
	r.Engine.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
}
