package repository

import (
	"context"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
)

// DealRepository persists investment deals. Listings are ordered by
// created_at descending.
type DealRepository interface {
	Create(ctx context.Context, d *entity.InvestmentDeal) error
	GetByID(ctx context.Context, id string) (*entity.InvestmentDeal, error)
	// UpdateTerms writes amount and equity while the deal is still pending.
	// It returns ErrStateChanged when the deal has left Pending.
	UpdateTerms(ctx context.Context, d *entity.InvestmentDeal) error
	// TransitionStatus moves a Pending deal to status. It returns
	// ErrStateChanged when the deal is no longer Pending.
	TransitionStatus(ctx context.Context, id string, status entity.DealStatus) (*entity.InvestmentDeal, error)
	ListByInvestor(ctx context.Context, investorID string) ([]entity.DealWithCompany, error)
	ListByCompany(ctx context.Context, companyID string) ([]entity.InvestmentDeal, error)
}
