package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type ContentHandler struct {
	Svc    *application.ContentService
	Logger *logrus.Logger
}

func NewContentHandler(svc *application.ContentService, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{Svc: svc, Logger: logger}
}

type documentRequest struct {
	CompanyID   string `json:"company_id" form:"company_id" binding:"required"`
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	Description string `json:"description" form:"description"`
	DocURL      string `json:"doc_url" form:"doc_url" binding:"omitempty,url"`
}

type rateRequest struct {
	Year   int             `json:"year" binding:"required,year"`
	Profit decimal.Decimal `json:"profit"`
}

// AddDocument POST /api/company/document. Accepts JSON with doc_url, or a
// multipart form with the document in the "file" field.
func (h *ContentHandler) AddDocument(c *gin.Context) {
	var req documentRequest
	multipart := strings.HasPrefix(c.ContentType(), "multipart/")
	if multipart {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	}
	if err := c.ShouldBind(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := application.DocumentInput{CompanyID: req.CompanyID, Title: req.Title, Description: req.Description, DocURL: req.DocURL}

	if !multipart {
		doc, err := h.Svc.AddDocument(c.Request.Context(), currentUser(c), in)
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		response.Success(c, http.StatusCreated, "document added", gin.H{"document": documentJSON(doc)})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer f.Close()
	doc, err := h.Svc.UploadDocument(c.Request.Context(), currentUser(c), in, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "document uploaded", gin.H{"document": documentJSON(doc)})
}

// DeleteDocument DELETE /api/company/document/:id
func (h *ContentHandler) DeleteDocument(c *gin.Context) {
	if err := h.Svc.DeleteDocument(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "document deleted", nil)
}

// ListDocuments GET /api/company/document/:company_id
func (h *ContentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.Svc.ListDocuments(c.Request.Context(), currentUser(c), c.Param("company_id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	items := make([]gin.H, 0, len(docs))
	for i := range docs {
		items = append(items, documentJSON(&docs[i]))
	}
	response.Success(c, http.StatusOK, "company documents", gin.H{"documents": items})
}

// SaveRates POST /api/company/rates/:company_id with a JSON array of {year, profit}.
func (h *ContentHandler) SaveRates(c *gin.Context) {
	var req []rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := make([]application.GrowthRateInput, 0, len(req))
	for _, r := range req {
		in = append(in, application.GrowthRateInput{Year: r.Year, Profit: r.Profit})
	}
	rates, err := h.Svc.SaveGrowthRates(c.Request.Context(), currentUser(c), c.Param("company_id"), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "growth rates saved", gin.H{"rates": ratesJSON(rates)})
}

// ListRates GET /api/company/rates/:company_id
func (h *ContentHandler) ListRates(c *gin.Context) {
	rates, err := h.Svc.ListGrowthRates(c.Request.Context(), currentUser(c), c.Param("company_id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "growth rates", gin.H{"rates": ratesJSON(rates)})
}
