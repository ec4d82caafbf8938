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

type ownerRepo struct{ repos }

func (r ownerRepo) Create(ctx context.Context, o *entity.CompanyOwner) error {
	return r.write(func(d *data) error {
		if _, ok := d.users[o.UserID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := d.companies[o.CompanyID]; !ok {
			return repository.ErrNotFound
		}
		for _, existing := range d.owners {
			if existing.v.UserID == o.UserID && existing.v.CompanyID == o.CompanyID {
				return repository.ErrDuplicate
			}
		}
		if o.RelID == "" {
			o.RelID = uuid.NewString()
		}
		o.CreatedAt = r.now()
		d.owners[o.RelID] = row[entity.CompanyOwner]{v: *o, seq: d.next()}
		return nil
	})
}

func (r ownerRepo) GetByRelID(ctx context.Context, relID string) (*entity.CompanyOwner, error) {
	var (
		rw    row[entity.CompanyOwner]
		found bool
	)
	r.read(func(d *data) { rw, found = d.owners[relID] })
	if !found {
		return nil, repository.ErrNotFound
	}
	o := rw.v
	return &o, nil
}

func (r ownerRepo) GetByUserAndCompany(ctx context.Context, userID, companyID string) (*entity.CompanyOwner, error) {
	var o *entity.CompanyOwner
	r.read(func(d *data) {
		for _, rw := range d.owners {
			if rw.v.UserID == userID && rw.v.CompanyID == companyID {
				v := rw.v
				o = &v
				return
			}
		}
	})
	if o == nil {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (r ownerRepo) Activate(ctx context.Context, relID string) error {
	return r.write(func(d *data) error {
		rw, ok := d.owners[relID]
		if !ok || rw.v.Active {
			return repository.ErrNotFound
		}
		rw.v.Active = true
		d.owners[relID] = rw
		return nil
	})
}

func (r ownerRepo) Delete(ctx context.Context, relID string) error {
	return r.write(func(d *data) error {
		if _, ok := d.owners[relID]; !ok {
			return repository.ErrNotFound
		}
		delete(d.owners, relID)
		return nil
	})
}

func (r ownerRepo) IsActiveOwner(ctx context.Context, userID, companyID string) (bool, error) {
	var active bool
	r.read(func(d *data) {
		for _, rw := range d.owners {
			if rw.v.UserID == userID && rw.v.CompanyID == companyID && rw.v.Active {
				active = true
				return
			}
		}
	})
	return active, nil
}

func (r ownerRepo) ListActiveOwners(ctx context.Context, companyID string) ([]entity.OwnerView, error) {
	var rows []row[entity.OwnerView]
	r.read(func(d *data) {
		for _, rw := range d.owners {
			if rw.v.CompanyID != companyID || !rw.v.Active {
				continue
			}
			u, ok := d.users[rw.v.UserID]
			if !ok {
				continue
			}
			rows = append(rows, row[entity.OwnerView]{seq: rw.seq, v: entity.OwnerView{
				RelID:     rw.v.RelID,
				UserID:    u.v.ID,
				FirstName: u.v.FirstName,
				LastName:  u.v.LastName,
				AvatarURL: u.v.AvatarURL,
				Role:      rw.v.Role,
			}})
		}
	})
	slices.SortFunc(rows, func(a, b row[entity.OwnerView]) int { return cmp.Compare(a.seq, b.seq) })
	return values(rows), nil
}

func (r ownerRepo) ListPendingForUser(ctx context.Context, userID string) ([]entity.PendingInvitation, error) {
	var rows []row[entity.PendingInvitation]
	r.read(func(d *data) {
		for _, rw := range d.owners {
			if rw.v.UserID != userID || rw.v.Active {
				continue
			}
			c, ok := d.companies[rw.v.CompanyID]
			if !ok {
				continue
			}
			rows = append(rows, row[entity.PendingInvitation]{seq: rw.seq, v: entity.PendingInvitation{
				RelID:     rw.v.RelID,
				Role:      rw.v.Role,
				Company:   c.v.Card(),
				CreatedAt: rw.v.CreatedAt,
			}})
		}
	})
	slices.SortFunc(rows, newestFirst(func(p entity.PendingInvitation) time.Time { return p.CreatedAt }))
	return values(rows), nil
}
