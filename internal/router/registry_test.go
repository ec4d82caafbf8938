package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func TestRegistry_MountsUnderAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	var hits int
	reg.Use(func(c *gin.Context) { hits++ })
	reg.Add(pingModule{})
	reg.RegisterAll()

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
	require.Equal(t, 1, hits)
}

func TestRegistry_UnknownRoutesUseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Add(pingModule{})
	reg.RegisterAll()

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, "route not found", body["message"])

	w = httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/ping", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
