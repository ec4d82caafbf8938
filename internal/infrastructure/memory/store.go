// Package memory is an in-memory implementation of repository.Store for
// development and testing.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

// row keeps the insertion sequence next to a value so listings have a stable
// tie-break when timestamps collide.
type row[T any] struct {
	v   T
	seq int64
}

type data struct {
	seq           int64
	users         map[string]row[entity.User]
	companies     map[string]row[entity.Company]
	owners        map[string]row[entity.CompanyOwner]
	deals         map[string]row[entity.InvestmentDeal]
	notifications map[string]row[entity.Notification]
	documents     map[string]row[entity.CompanyDocument]
	rates         map[string]row[entity.GrowthRate]
	payments      map[string]row[entity.PaymentEvent]
}

func newData() *data {
	return &data{
		users:         make(map[string]row[entity.User]),
		companies:     make(map[string]row[entity.Company]),
		owners:        make(map[string]row[entity.CompanyOwner]),
		deals:         make(map[string]row[entity.InvestmentDeal]),
		notifications: make(map[string]row[entity.Notification]),
		documents:     make(map[string]row[entity.CompanyDocument]),
		rates:         make(map[string]row[entity.GrowthRate]),
		payments:      make(map[string]row[entity.PaymentEvent]),
	}
}

func (d *data) next() int64 {
	d.seq++
	return d.seq
}

// clone copies every table. Values are stored by value and pointer fields are
// only ever replaced, never mutated in place, so a shallow map copy is enough.
func (d *data) clone() *data {
	return &data{
		seq:           d.seq,
		users:         maps.Clone(d.users),
		companies:     maps.Clone(d.companies),
		owners:        maps.Clone(d.owners),
		deals:         maps.Clone(d.deals),
		notifications: maps.Clone(d.notifications),
		documents:     maps.Clone(d.documents),
		rates:         maps.Clone(d.rates),
		payments:      maps.Clone(d.payments),
	}
}

// Store serializes transactions and restores a snapshot when one fails.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    *data
	now  func() time.Time
}

// NewStore creates an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{d: newData(), now: now}
}

func (s *Store) Repos() repository.Repos { return repos{s: s} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := s.d.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, repos{s: s, inTx: true}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) restore(snap *data) {
	s.mu.Lock()
	s.d = snap
	s.mu.Unlock()
}

type repos struct {
	s    *Store
	inTx bool
}

func (r repos) Users() repository.UserRepository                 { return userRepo{r} }
func (r repos) Companies() repository.CompanyRepository          { return companyRepo{r} }
func (r repos) Owners() repository.OwnerRepository               { return ownerRepo{r} }
func (r repos) Deals() repository.DealRepository                 { return dealRepo{r} }
func (r repos) Notifications() repository.NotificationRepository { return notificationRepo{r} }
func (r repos) Documents() repository.DocumentRepository         { return documentRepo{r} }
func (r repos) GrowthRates() repository.GrowthRateRepository     { return rateRepo{r} }
func (r repos) Payments() repository.PaymentRepository           { return paymentRepo{r} }

func (r repos) read(fn func(d *data)) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fn(r.s.d)
}

// write takes the transaction lock when called outside WithinTx so a
// concurrent rollback cannot discard it.
func (r repos) write(fn func(d *data) error) error {
	if !r.inTx {
		r.s.txMu.Lock()
		defer r.s.txMu.Unlock()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(r.s.d)
}

func (r repos) now() time.Time { return r.s.now() }

var _ repository.Store = (*Store)(nil)
