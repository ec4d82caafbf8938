package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type companyRepo struct{ repos }

func (r companyRepo) Create(ctx context.Context, c *entity.Company) error {
	return r.write(func(d *data) error {
		for _, existing := range d.companies {
			if strings.EqualFold(existing.v.ContactEmail, c.ContactEmail) {
				return repository.ErrDuplicate
			}
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		now := r.now()
		c.CreatedAt, c.UpdatedAt = now, now
		d.companies[c.ID] = row[entity.Company]{v: *c, seq: d.next()}
		return nil
	})
}

func (r companyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var (
		rw    row[entity.Company]
		found bool
	)
	r.read(func(d *data) { rw, found = d.companies[id] })
	if !found {
		return nil, repository.ErrNotFound
	}
	c := rw.v
	return &c, nil
}

func (r companyRepo) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.write(func(d *data) error {
		rw, ok := d.companies[id]
		if !ok {
			return repository.ErrNotFound
		}
		rw.v.AvatarURL = avatarURL
		rw.v.UpdatedAt = r.now()
		d.companies[id] = rw
		return nil
	})
}

func (r companyRepo) UpdateSubscription(ctx context.Context, id string, start, end time.Time) error {
	return r.write(func(d *data) error {
		rw, ok := d.companies[id]
		if !ok {
			return repository.ErrNotFound
		}
		rw.v.Paid = true
		rw.v.SubscriptionStart = &start
		rw.v.SubscriptionEnd = &end
		rw.v.UpdatedAt = r.now()
		d.companies[id] = rw
		return nil
	})
}

func (r companyRepo) Filter(ctx context.Context, f entity.CompanyFilter) ([]entity.Company, int, error) {
	var matched []row[entity.Company]
	r.read(func(d *data) {
		for _, rw := range d.companies {
			if matchCompany(rw.v, f) {
				matched = append(matched, rw)
			}
		}
	})

	slices.SortFunc(matched, func(a, b row[entity.Company]) int {
		c := compareCompany(a.v, b.v, f.SortBy)
		if c == 0 {
			c = cmp.Compare(a.seq, b.seq)
		}
		if f.Desc {
			return -c
		}
		return c
	})

	total := len(matched)
	out := make([]entity.Company, 0, max(f.Limit, 0))
	for i := max(f.Offset, 0); i < total && (f.Limit <= 0 || len(out) < f.Limit); i++ {
		out = append(out, matched[i].v)
	}
	return out, total, nil
}

func matchCompany(c entity.Company, f entity.CompanyFilter) bool {
	if !containsFold(c.Name, f.Name) || !containsFold(c.Industry, f.Industry) || !containsFold(c.Location, f.Location) {
		return false
	}
	if f.StockMarket != nil && c.StockMarket != *f.StockMarket {
		return false
	}
	if f.FoundedMin != nil && c.FounderYear < *f.FoundedMin {
		return false
	}
	if f.FoundedMax != nil && c.FounderYear > *f.FoundedMax {
		return false
	}
	if f.ValuationMin != nil && c.Valuation.LessThan(*f.ValuationMin) {
		return false
	}
	if f.ValuationMax != nil && c.Valuation.GreaterThan(*f.ValuationMax) {
		return false
	}
	return true
}

func compareCompany(a, b entity.Company, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "industry":
		return strings.Compare(a.Industry, b.Industry)
	case "location":
		return strings.Compare(a.Location, b.Location)
	case "founder_year":
		return cmp.Compare(a.FounderYear, b.FounderYear)
	case "valuation":
		return a.Valuation.Cmp(b.Valuation)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r companyRepo) ListByActiveOwner(ctx context.Context, userID string) ([]entity.Company, error) {
	var out []row[entity.Company]
	r.read(func(d *data) {
		for _, o := range d.owners {
			if o.v.UserID != userID || !o.v.Active {
				continue
			}
			if c, ok := d.companies[o.v.CompanyID]; ok {
				out = append(out, c)
			}
		}
	})
	slices.SortFunc(out, func(a, b row[entity.Company]) int { return cmp.Compare(a.seq, b.seq) })
	return values(out), nil
}

func values[T any](rows []row[T]) []T {
	out := make([]T, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.v)
	}
	return out
}

// newestFirst orders rows by creation time descending, newest insert winning ties.
func newestFirst[T any](created func(T) time.Time) func(a, b row[T]) int {
	return func(a, b row[T]) int {
		if c := created(b.v).Compare(created(a.v)); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	}
}

// containsFold mirrors ILIKE '%sub%'.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
