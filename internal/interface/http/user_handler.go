package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type UserHandler struct {
	Svc    *application.IdentityService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.IdentityService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// TokenValid GET /api/user/token-valid
func (h *UserHandler) TokenValid(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "token is valid", gin.H{"user_id": u.ID, "user_type": u.Role})
}

// GetProfile GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "profile", gin.H{"user": profileJSON(p)})
}

// UploadAvatar PUT /api/user/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer f.Close()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), currentUser(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "avatar updated", gin.H{"avatar": url})
}
