package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type DealHandler struct {
	Svc    *application.DealService
	Logger *logrus.Logger
}

func NewDealHandler(svc *application.DealService, logger *logrus.Logger) *DealHandler {
	return &DealHandler{Svc: svc, Logger: logger}
}

type proposeRequest struct {
	CompanyID        string           `json:"company_id" binding:"required"`
	Amount           *decimal.Decimal `json:"amount" binding:"required"`
	EquityPercentage *decimal.Decimal `json:"equity_percentage" binding:"required"`
}

type amendRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	EquityPercentage *decimal.Decimal `json:"equity_percentage"`
}

type respondRequest struct {
	Status string `json:"status" binding:"required,dealstatus"`
}

// Propose POST /api/investment/investor
func (h *DealHandler) Propose(c *gin.Context) {
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	d, err := h.Svc.Propose(c.Request.Context(), currentUser(c), application.ProposeInput{
		CompanyID:        req.CompanyID,
		Amount:           req.Amount,
		EquityPercentage: req.EquityPercentage,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "investment request created successfully", gin.H{"deal": dealJSON(d)})
}

// Amend PATCH /api/investment/investor/:id
func (h *DealHandler) Amend(c *gin.Context) {
	var req amendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	d, err := h.Svc.Amend(c.Request.Context(), c.Param("id"), currentUser(c), application.AmendInput{
		Amount:           req.Amount,
		EquityPercentage: req.EquityPercentage,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "investment request updated", gin.H{"deal": dealJSON(d)})
}

// ListMine GET /api/investment/investor
func (h *DealHandler) ListMine(c *gin.Context) {
	deals, err := h.Svc.ListForInvestor(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "investment requests", gin.H{"deals": dealsWithCompanyJSON(deals)})
}

// ListForCompany GET /api/investment/company/:company_id
func (h *DealHandler) ListForCompany(c *gin.Context) {
	deals, err := h.Svc.ListForCompany(c.Request.Context(), currentUser(c), c.Param("company_id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "investment requests", gin.H{"deals": dealsJSON(deals)})
}

// Respond PATCH /api/investment/company/:id/respond
func (h *DealHandler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	d, err := h.Svc.Respond(c.Request.Context(), c.Param("id"), currentUser(c), req.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "investment request "+string(d.Status), gin.H{"deal": dealJSON(d)})
}
