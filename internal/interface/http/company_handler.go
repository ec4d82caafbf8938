package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type CompanyHandler struct {
	Svc    *application.CompanyService
	Logger *logrus.Logger
}

func NewCompanyHandler(svc *application.CompanyService, logger *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{Svc: svc, Logger: logger}
}

type registerCompanyRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	Description   string          `json:"description" binding:"required"`
	ContactNumber string          `json:"contact_number" binding:"required"`
	ContactEmail  string          `json:"contact_email" binding:"required,email"`
	Industry      string          `json:"industry" binding:"required"`
	Location      string          `json:"location" binding:"required"`
	WebLink       string          `json:"web_link" binding:"omitempty,url"`
	StockMarket   bool            `json:"stock_market"`
	FounderYear   int             `json:"founder_year" binding:"required,year"`
	Valuation     decimal.Decimal `json:"valuation"`
	UserRole      string          `json:"user_role" binding:"required,max=100"`
}

// Register POST /api/company
func (h *CompanyHandler) Register(c *gin.Context) {
	var req registerCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	co, err := h.Svc.RegisterCompany(c.Request.Context(), currentUser(c), application.RegisterCompanyInput{
		Name:          req.Name,
		Description:   req.Description,
		ContactNumber: req.ContactNumber,
		ContactEmail:  req.ContactEmail,
		Industry:      req.Industry,
		Location:      req.Location,
		WebLink:       req.WebLink,
		StockMarket:   req.StockMarket,
		FounderYear:   req.FounderYear,
		Valuation:     req.Valuation,
		OwnerRole:     req.UserRole,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "company registered successfully", gin.H{"company": companyJSON(co)})
}

// Get GET /api/company/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	co, err := h.Svc.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "company", gin.H{"company": companyJSON(co)})
}

// Filter GET /api/company/filter
func (h *CompanyHandler) Filter(c *gin.Context) {
	q := application.CompanyQuery{
		Name:     c.Query("name"),
		Industry: c.Query("industry"),
		Location: c.Query("location"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	var bad []string
	if v := c.Query("stock_market"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			bad = append(bad, "stock_market")
		}
		q.StockMarket = &b
	}
	for key, dst := range map[string]**int{"founded_min": &q.FoundedMin, "founded_max": &q.FoundedMax} {
		if v := c.Query(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				bad = append(bad, key)
				continue
			}
			*dst = &n
		}
	}
	for key, dst := range map[string]**decimal.Decimal{"valuation_min": &q.ValuationMin, "valuation_max": &q.ValuationMax} {
		if v := c.Query(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				bad = append(bad, key)
				continue
			}
			*dst = &d
		}
	}
	if len(bad) > 0 {
		details := make(map[string]string, len(bad))
		for _, k := range bad {
			details[k] = "invalid value"
		}
		response.Fail(c, http.StatusBadRequest, "invalid query", details)
		return
	}

	page, err := h.Svc.Filter(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	items := make([]gin.H, 0, len(page.Companies))
	for i := range page.Companies {
		items = append(items, companyJSON(&page.Companies[i]))
	}
	response.Success(c, http.StatusOK, "companies", gin.H{
		"companies":     items,
		"current_page":  page.Page,
		"total_pages":   page.TotalPages,
		"total_results": page.Total,
	})
}

// UploadAvatar PUT /api/company/:id/avatar (multipart field "avatar")
func (h *CompanyHandler) UploadAvatar(c *gin.Context) {
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

	url, err := h.Svc.UploadCompanyAvatar(c.Request.Context(), currentUser(c), c.Param("id"), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "company avatar updated", gin.H{"avatar": url})
}
