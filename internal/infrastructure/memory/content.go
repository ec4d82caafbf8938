package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type documentRepo struct{ repos }

func (r documentRepo) Create(ctx context.Context, doc *entity.CompanyDocument) error {
	return r.write(func(d *data) error {
		if _, ok := d.companies[doc.CompanyID]; !ok {
			return repository.ErrNotFound
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		doc.CreatedAt = r.now()
		d.documents[doc.ID] = row[entity.CompanyDocument]{v: *doc, seq: d.next()}
		return nil
	})
}

func (r documentRepo) GetByID(ctx context.Context, id string) (*entity.CompanyDocument, error) {
	var (
		rw    row[entity.CompanyDocument]
		found bool
	)
	r.read(func(d *data) { rw, found = d.documents[id] })
	if !found {
		return nil, repository.ErrNotFound
	}
	doc := rw.v
	return &doc, nil
}

func (r documentRepo) Delete(ctx context.Context, id string) error {
	return r.write(func(d *data) error {
		if _, ok := d.documents[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.documents, id)
		return nil
	})
}

func (r documentRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.CompanyDocument, error) {
	var rows []row[entity.CompanyDocument]
	r.read(func(d *data) {
		for _, rw := range d.documents {
			if rw.v.CompanyID == companyID {
				rows = append(rows, rw)
			}
		}
	})
	slices.SortFunc(rows, newestFirst(func(doc entity.CompanyDocument) time.Time { return doc.CreatedAt }))
	return values(rows), nil
}

type rateRepo struct{ repos }

func (r rateRepo) Upsert(ctx context.Context, rate *entity.GrowthRate) error {
	return r.write(func(d *data) error {
		if _, ok := d.companies[rate.CompanyID]; !ok {
			return repository.ErrNotFound
		}
		for id, rw := range d.rates {
			if rw.v.CompanyID == rate.CompanyID && rw.v.Year == rate.Year {
				rw.v.Profit = rate.Profit
				d.rates[id] = rw
				rate.ID = id
				return nil
			}
		}
		if rate.ID == "" {
			rate.ID = uuid.NewString()
		}
		d.rates[rate.ID] = row[entity.GrowthRate]{v: *rate, seq: d.next()}
		return nil
	})
}

func (r rateRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.GrowthRate, error) {
	var out []entity.GrowthRate
	r.read(func(d *data) {
		for _, rw := range d.rates {
			if rw.v.CompanyID == companyID {
				out = append(out, rw.v)
			}
		}
	})
	slices.SortFunc(out, func(a, b entity.GrowthRate) int { return cmp.Compare(a.Year, b.Year) })
	return out, nil
}

type paymentRepo struct{ repos }

func (r paymentRepo) Record(ctx context.Context, ev *entity.PaymentEvent) error {
	return r.write(func(d *data) error {
		if _, ok := d.payments[ev.EventID]; ok {
			return repository.ErrDuplicate
		}
		ev.ProcessedAt = r.now()
		d.payments[ev.EventID] = row[entity.PaymentEvent]{v: *ev, seq: d.next()}
		return nil
	})
}

func (r paymentRepo) Get(ctx context.Context, eventID string) (*entity.PaymentEvent, error) {
	var (
		rw    row[entity.PaymentEvent]
		found bool
	)
	r.read(func(d *data) { rw, found = d.payments[eventID] })
	if !found {
		return nil, repository.ErrNotFound
	}
	ev := rw.v
	return &ev, nil
}
