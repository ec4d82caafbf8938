package repository

import (
	"context"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
)

// OwnerRepository persists the company ownership relation.
type OwnerRepository interface {
	// Create inserts a relation; ErrDuplicate when the (user, company) pair exists.
	Create(ctx context.Context, o *entity.CompanyOwner) error
	GetByRelID(ctx context.Context, relID string) (*entity.CompanyOwner, error)
	GetByUserAndCompany(ctx context.Context, userID, companyID string) (*entity.CompanyOwner, error)
	// Activate flips a pending relation to active. It returns ErrNotFound when
	// no pending relation with relID exists, including one that is already active.
	Activate(ctx context.Context, relID string) error
	Delete(ctx context.Context, relID string) error
	IsActiveOwner(ctx context.Context, userID, companyID string) (bool, error)
	ListActiveOwners(ctx context.Context, companyID string) ([]entity.OwnerView, error)
	ListPendingForUser(ctx context.Context, userID string) ([]entity.PendingInvitation, error)
}
