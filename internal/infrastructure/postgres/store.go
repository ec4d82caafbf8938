package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Repos() repository.Repos { return repos{q: s.pool} }

// WithinTx commits only when fn returns nil; pgx.BeginFunc rolls back on error
// or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, repos{q: tx})
	})
}

type repos struct {
	q querier
}

func (r repos) Users() repository.UserRepository                 { return &UserRepository{q: r.q} }
func (r repos) Companies() repository.CompanyRepository          { return &CompanyRepository{q: r.q} }
func (r repos) Owners() repository.OwnerRepository               { return &OwnerRepository{q: r.q} }
func (r repos) Deals() repository.DealRepository                 { return &DealRepository{q: r.q} }
func (r repos) Notifications() repository.NotificationRepository { return &NotificationRepository{q: r.q} }
func (r repos) Documents() repository.DocumentRepository         { return &DocumentRepository{q: r.q} }
func (r repos) GrowthRates() repository.GrowthRateRepository     { return &GrowthRateRepository{q: r.q} }
func (r repos) Payments() repository.PaymentRepository           { return &PaymentRepository{q: r.q} }

var _ repository.Store = (*Store)(nil)
