// Package handlers adapts the application services to Gin.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/response"
	"github.com/oksasatya/invest-marketplace/pkg/validation"
)

// maxUploadSize bounds multipart uploads (avatars, documents).
const maxUploadSize = 10 << 20

// respondError writes the error envelope and logs anything that is not a
// client error.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if apperror.KindOf(err) == apperror.KindServer && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, err)
}

func invalidPayload(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func currentUser(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":                 u.ID,
		"first_name":         u.FirstName,
		"last_name":          u.LastName,
		"email":              u.Email,
		"user_type":          u.Role,
		"nationality":        u.Nationality,
		"avatar":             u.AvatarURL,
		"paid":               u.Paid,
		"subscription_start": timePtr(u.SubscriptionStart),
		"subscription_end":   timePtr(u.SubscriptionEnd),
		"created_at":         u.CreatedAt,
		"updated_at":         u.UpdatedAt,
	}
}

func companyJSON(co *entity.Company) gin.H {
	return gin.H{
		"id":                 co.ID,
		"name":               co.Name,
		"description":        co.Description,
		"contact_number":     co.ContactNumber,
		"contact_email":      co.ContactEmail,
		"industry":           co.Industry,
		"location":           co.Location,
		"web_link":           co.WebLink,
		"avatar":             co.AvatarURL,
		"stock_market":       co.StockMarket,
		"founder_year":       co.FounderYear,
		"valuation":          co.Valuation,
		"paid":               co.Paid,
		"subscription_start": timePtr(co.SubscriptionStart),
		"subscription_end":   timePtr(co.SubscriptionEnd),
		"created_at":         co.CreatedAt,
		"updated_at":         co.UpdatedAt,
	}
}

func dealJSON(d *entity.InvestmentDeal) gin.H {
	return gin.H{
		"id":                d.ID,
		"company_id":        d.CompanyID,
		"investor_id":       d.InvestorID,
		"amount":            d.Amount,
		"equity_percentage": d.EquityPercentage,
		"deal_status":       d.Status,
		"created_at":        d.CreatedAt,
		"updated_at":        d.UpdatedAt,
	}
}

func dealsJSON(deals []entity.InvestmentDeal) []gin.H {
	out := make([]gin.H, 0, len(deals))
	for i := range deals {
		out = append(out, dealJSON(&deals[i]))
	}
	return out
}

func dealsWithCompanyJSON(deals []entity.DealWithCompany) []gin.H {
	out := make([]gin.H, 0, len(deals))
	for i := range deals {
		h := dealJSON(&deals[i].Deal)
		h["company"] = deals[i].Company
		out = append(out, h)
	}
	return out
}

func notificationJSON(n *entity.Notification) gin.H {
	var from any
	if n.FromUserID != "" {
		from = n.FromUserID
	}
	return gin.H{
		"id":           n.ID,
		"from_user_id": from,
		"to_user_id":   n.ToUserID,
		"content":      n.Content,
		"type":         n.Type,
		"is_seen":      n.IsSeen,
		"created_at":   n.CreatedAt,
		"updated_at":   n.UpdatedAt,
	}
}

func documentJSON(d *entity.CompanyDocument) gin.H {
	return gin.H{
		"id":          d.ID,
		"company_id":  d.CompanyID,
		"title":       d.Title,
		"description": d.Description,
		"doc_url":     d.DocURL,
		"created_at":  d.CreatedAt,
	}
}

func ratesJSON(rates []entity.GrowthRate) []gin.H {
	out := make([]gin.H, 0, len(rates))
	for _, r := range rates {
		out = append(out, gin.H{"id": r.ID, "company_id": r.CompanyID, "year": r.Year, "profit": r.Profit})
	}
	return out
}

func profileJSON(p *application.Profile) gin.H {
	h := userJSON(p.User)
	h["companies"] = p.Companies
	if p.User.Role == entity.RoleInvestor {
		h["deals"] = dealsWithCompanyJSON(p.Deals)
	}
	return h
}
