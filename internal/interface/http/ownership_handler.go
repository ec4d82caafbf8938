package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type OwnershipHandler struct {
	Svc    *application.OwnershipService
	Logger *logrus.Logger
}

func NewOwnershipHandler(svc *application.OwnershipService, logger *logrus.Logger) *OwnershipHandler {
	return &OwnershipHandler{Svc: svc, Logger: logger}
}

type inviteRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
	OwnerID   string `json:"owner_id" binding:"required"`
	Role      string `json:"role" binding:"omitempty,max=100"`
}

// Invite POST /api/company/owners/invite
func (h *OwnershipHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	rel, err := h.Svc.Invite(c.Request.Context(), currentUser(c), application.InviteInput{
		CompanyID: req.CompanyID,
		InviteeID: req.OwnerID,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "invitation sent", gin.H{"invitation": gin.H{
		"rel_id":     rel.RelID,
		"user_id":    rel.UserID,
		"company_id": rel.CompanyID,
		"role":       rel.Role,
		"active":     rel.Active,
	}})
}

// Accept POST /api/company/owners/:rel_id/accept
func (h *OwnershipHandler) Accept(c *gin.Context) {
	if err := h.Svc.Accept(c.Request.Context(), c.Param("rel_id"), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "invitation accepted", nil)
}

// Reject DELETE /api/company/owners/:rel_id
func (h *OwnershipHandler) Reject(c *gin.Context) {
	if err := h.Svc.Reject(c.Request.Context(), c.Param("rel_id"), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "ownership removed", nil)
}

// ListOwners GET /api/company/:id/owners
func (h *OwnershipHandler) ListOwners(c *gin.Context) {
	owners, err := h.Svc.ListOwners(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "company owners", gin.H{"owners": owners})
}
