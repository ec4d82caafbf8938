package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type AuthHandler struct {
	Svc     *application.IdentityService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.IdentityService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	UserType        string `json:"user_type" binding:"required,usertype"`
	Nationality     string `json:"nationality" binding:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func tokensJSON(pair application.TokenPair) gin.H {
	return gin.H{
		"access_token":       pair.AccessToken,
		"refresh_token":      pair.RefreshToken,
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserType:        req.UserType,
		Nationality:     req.Nationality,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "user registered successfully", gin.H{"user": userJSON(u)})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, "login successful", gin.H{"user": userJSON(u), "tokens": tokensJSON(pair)})
}

// Refresh POST /api/auth/refresh. The refresh token comes from the body or
// the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshCookie)
	}
	if token == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, "token refreshed", gin.H{"tokens": tokensJSON(pair)})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, "logged out", gin.H{"logged_out": true})
}
