package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/pkg/apperror"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess_FlattensPayload(t *testing.T) {
	c, w := newContext()
	Success(c, http.StatusCreated, "created", gin.H{"deal_id": "d1"})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, "created", body["message"])
	require.Equal(t, "req-1", body["request_id"])
	require.Equal(t, "d1", body["deal_id"])
}

func TestError_MapsKinds(t *testing.T) {
	c, w := newContext()
	Error(c, apperror.Forbidden("only investors can create deals"))

	require.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Failure", body["status"])
	require.Equal(t, "only investors can create deals", body["message"])
	require.NotContains(t, body, "details")
}

func TestError_HidesUnexpected(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	require.Equal(t, "internal server error", body["message"])
	require.Equal(t, "Failure", body["status"])
}

func TestFail_Details(t *testing.T) {
	c, w := newContext()
	Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"email": "is required"})

	body := decode(t, w)
	require.Equal(t, map[string]any{"email": "is required"}, body["details"])
}
