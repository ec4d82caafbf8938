package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is a business profile seeking investment.
type Company struct {
	ID                string
	Name              string
	Description       string
	ContactNumber     string
	ContactEmail      string
	Industry          string
	Location          string
	WebLink           string
	AvatarURL         string
	StockMarket       bool
	FounderYear       int
	Valuation         decimal.Decimal
	Paid              bool
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CompanyCard is the short projection used in listings, profiles and feeds.
type CompanyCard struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ContactEmail string          `json:"contact_email"`
	Industry     string          `json:"industry"`
	AvatarURL    string          `json:"avatar"`
	FounderYear  int             `json:"founder_year"`
	Valuation    decimal.Decimal `json:"valuation"`
}

func (c *Company) Card() CompanyCard {
	return CompanyCard{
		ID:           c.ID,
		Name:         c.Name,
		ContactEmail: c.ContactEmail,
		Industry:     c.Industry,
		AvatarURL:    c.AvatarURL,
		FounderYear:  c.FounderYear,
		Valuation:    c.Valuation,
	}
}

// CompanyFilter selects companies for the paginated filter endpoint.
type CompanyFilter struct {
	Name         string
	Industry     string
	Location     string
	StockMarket  *bool
	FoundedMin   *int
	FoundedMax   *int
	ValuationMin *decimal.Decimal
	ValuationMax *decimal.Decimal
	SortBy       string
	Desc         bool
	Offset       int
	Limit        int
}

// CompanySortFields lists the columns the filter endpoint may sort by.
var CompanySortFields = []string{"name", "industry", "location", "founder_year", "valuation"}

// CompanyDocument is a file attached to a company profile.
type CompanyDocument struct {
	ID          string
	CompanyID   string
	Title       string
	Description string
	DocURL      string
	CreatedAt   time.Time
}

// GrowthRate is the reported profit of a company for one year.
type GrowthRate struct {
	ID        string
	CompanyID string
	Year      int
	Profit    decimal.Decimal
}

// Entitled reports whether the company holds a live paid subscription at now.
func (c *Company) Entitled(now time.Time) bool {
	return IsEntitled(c.Paid, c.SubscriptionEnd, now)
}
