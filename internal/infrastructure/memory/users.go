package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type userRepo struct{ repos }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	return r.write(func(d *data) error {
		for _, existing := range d.users {
			if strings.EqualFold(existing.v.Email, u.Email) {
				return repository.ErrDuplicate
			}
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		now := r.now()
		u.CreatedAt, u.UpdatedAt = now, now
		d.users[u.ID] = row[entity.User]{v: *u, seq: d.next()}
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var (
		u     entity.User
		found bool
	)
	r.read(func(d *data) {
		var rw row[entity.User]
		rw, found = d.users[id]
		u = rw.v
	})
	if !found {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u *entity.User
	r.read(func(d *data) {
		for _, rw := range d.users {
			if strings.EqualFold(rw.v.Email, email) {
				v := rw.v
				u = &v
				return
			}
		}
	})
	if u == nil {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r userRepo) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.write(func(d *data) error {
		rw, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		rw.v.AvatarURL = avatarURL
		rw.v.UpdatedAt = r.now()
		d.users[id] = rw
		return nil
	})
}

func (r userRepo) UpdateSubscription(ctx context.Context, id string, start, end time.Time) error {
	return r.write(func(d *data) error {
		rw, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		rw.v.Paid = true
		rw.v.SubscriptionStart = &start
		rw.v.SubscriptionEnd = &end
		rw.v.UpdatedAt = r.now()
		d.users[id] = rw
		return nil
	})
}
