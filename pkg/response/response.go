package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/pkg/apperror"
)

// ErrorBody is the error envelope.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Details   any    `json:"details,omitempty"`
}

// Success writes {success, message, request_id} with payload keys merged in at
// the top level.
func Success(ctx *gin.Context, status int, message string, payload gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := make(gin.H, len(payload)+3)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	body["message"] = message
	body["request_id"] = ctx.GetString("request_id")
	ctx.JSON(status, body)
}

// Fail writes the error envelope with an explicit status code.
func Fail(ctx *gin.Context, status int, message string, details any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Success:   false,
		Message:   message,
		Status:    apperror.StatusLabel(status),
		RequestID: ctx.GetString("request_id"),
		Details:   details,
	})
}

// Error writes the envelope for an application error. Errors without a kind
// become a 500 with a generic message.
func Error(ctx *gin.Context, err error) {
	Fail(ctx, apperror.HTTPStatus(err), apperror.Message(err), nil)
}
