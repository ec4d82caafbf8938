package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type dealRepo struct{ repos }

func dealCreated(d entity.InvestmentDeal) time.Time { return d.CreatedAt }

func (r dealRepo) Create(ctx context.Context, deal *entity.InvestmentDeal) error {
	return r.write(func(d *data) error {
		if _, ok := d.companies[deal.CompanyID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := d.users[deal.InvestorID]; !ok {
			return repository.ErrNotFound
		}
		if deal.ID == "" {
			deal.ID = uuid.NewString()
		}
		now := r.now()
		deal.CreatedAt, deal.UpdatedAt = now, now
		d.deals[deal.ID] = row[entity.InvestmentDeal]{v: *deal, seq: d.next()}
		return nil
	})
}

func (r dealRepo) GetByID(ctx context.Context, id string) (*entity.InvestmentDeal, error) {
	var (
		rw    row[entity.InvestmentDeal]
		found bool
	)
	r.read(func(d *data) { rw, found = d.deals[id] })
	if !found {
		return nil, repository.ErrNotFound
	}
	deal := rw.v
	return &deal, nil
}

func (r dealRepo) UpdateTerms(ctx context.Context, deal *entity.InvestmentDeal) error {
	return r.write(func(d *data) error {
		rw, ok := d.deals[deal.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if rw.v.Status != entity.DealPending {
			return repository.ErrStateChanged
		}
		rw.v.Amount = deal.Amount
		rw.v.EquityPercentage = deal.EquityPercentage
		rw.v.UpdatedAt = r.now()
		d.deals[deal.ID] = rw
		*deal = rw.v
		return nil
	})
}

func (r dealRepo) TransitionStatus(ctx context.Context, id string, status entity.DealStatus) (*entity.InvestmentDeal, error) {
	var out entity.InvestmentDeal
	err := r.write(func(d *data) error {
		rw, ok := d.deals[id]
		if !ok {
			return repository.ErrNotFound
		}
		if rw.v.Status != entity.DealPending {
			return repository.ErrStateChanged
		}
		rw.v.Status = status
		rw.v.UpdatedAt = r.now()
		d.deals[id] = rw
		out = rw.v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r dealRepo) ListByInvestor(ctx context.Context, investorID string) ([]entity.DealWithCompany, error) {
	var rows []row[entity.InvestmentDeal]
	cards := make(map[string]entity.CompanyCard)
	r.read(func(d *data) {
		for _, rw := range d.deals {
			if rw.v.InvestorID != investorID {
				continue
			}
			rows = append(rows, rw)
			if c, ok := d.companies[rw.v.CompanyID]; ok {
				cards[c.v.ID] = c.v.Card()
			}
		}
	})
	slices.SortFunc(rows, newestFirst(dealCreated))

	out := make([]entity.DealWithCompany, 0, len(rows))
	for _, rw := range rows {
		out = append(out, entity.DealWithCompany{Deal: rw.v, Company: cards[rw.v.CompanyID]})
	}
	return out, nil
}

func (r dealRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.InvestmentDeal, error) {
	var rows []row[entity.InvestmentDeal]
	r.read(func(d *data) {
		for _, rw := range d.deals {
			if rw.v.CompanyID == companyID {
				rows = append(rows, rw)
			}
		}
	})
	slices.SortFunc(rows, newestFirst(dealCreated))
	return values(rows), nil
}
