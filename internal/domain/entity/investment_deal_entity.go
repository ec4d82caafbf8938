package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DealStatus is the state of an investment deal. Pending is the only
// non-terminal state.
type DealStatus string

const (
	DealPending  DealStatus = "Pending"
	DealAccepted DealStatus = "Accepted"
	DealRejected DealStatus = "Rejected"
)

// ParseDealStatus normalizes a user-supplied status, case-insensitively.
func ParseDealStatus(s string) (DealStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return DealPending, true
	case "accepted":
		return DealAccepted, true
	case "rejected":
		return DealRejected, true
	default:
		return "", false
	}
}

func (s DealStatus) IsTerminal() bool {
	switch s {
	case DealAccepted, DealRejected:
		return true
	default:
		return false
	}
}

// MaxEquityPercentage bounds the equity an investor may ask for.
var MaxEquityPercentage = decimal.NewFromInt(100)

// InvestmentDeal is an investor's offer to a company.
type InvestmentDeal struct {
	ID               string
	CompanyID        string
	InvestorID       string
	Amount           decimal.Decimal
	EquityPercentage *decimal.Decimal
	Status           DealStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DealWithCompany pairs a deal with the card of its target company.
type DealWithCompany struct {
	Deal    InvestmentDeal
	Company CompanyCard
}
