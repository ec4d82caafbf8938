package repository

import (
	"context"
	"time"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdateSubscription(ctx context.Context, id string, start, end time.Time) error
	// Filter returns one page of matching companies and the total match count.
	Filter(ctx context.Context, f entity.CompanyFilter) ([]entity.Company, int, error)
	// ListByActiveOwner returns the companies the user actively owns.
	ListByActiveOwner(ctx context.Context, userID string) ([]entity.Company, error)
}

// DocumentRepository persists company documents.
type DocumentRepository interface {
	Create(ctx context.Context, d *entity.CompanyDocument) error
	GetByID(ctx context.Context, id string) (*entity.CompanyDocument, error)
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string) ([]entity.CompanyDocument, error)
}

// GrowthRateRepository persists yearly growth rates, one row per (company, year).
type GrowthRateRepository interface {
	Upsert(ctx context.Context, r *entity.GrowthRate) error
	// ListByCompany returns rates in ascending year order.
	ListByCompany(ctx context.Context, companyID string) ([]entity.GrowthRate, error)
}
