package repository

import (
	"context"
	"errors"
)

// Sentinel errors returned by every repository implementation.
var (
	// ErrNotFound is returned when the addressed row does not exist, or when a
	// guarded update matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStateChanged is returned when a guarded state transition finds the row
	// in a different state than the one required.
	ErrStateChanged = errors.New("record state changed")
)

// Repos groups the repositories bound to one connection or transaction.
type Repos interface {
	Users() UserRepository
	Companies() CompanyRepository
	Owners() OwnerRepository
	Deals() DealRepository
	Notifications() NotificationRepository
	Documents() DocumentRepository
	GrowthRates() GrowthRateRepository
	Payments() PaymentRepository
}

// Store is the unit-of-work boundary. Repos returns repositories that run each
// statement on its own; WithinTx runs fn inside a single transaction that is
// committed only when fn returns nil and rolled back otherwise.
type Store interface {
	Repos() Repos
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
