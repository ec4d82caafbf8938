package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type notificationRepo struct{ repos }

func (r notificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	return r.write(func(d *data) error {
		if _, ok := d.users[n.ToUserID]; !ok {
			return repository.ErrNotFound
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		now := r.now()
		n.CreatedAt, n.UpdatedAt = now, now
		d.notifications[n.ID] = row[entity.Notification]{v: *n, seq: d.next()}
		return nil
	})
}

func (r notificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	var (
		rw    row[entity.Notification]
		found bool
	)
	r.read(func(d *data) { rw, found = d.notifications[id] })
	if !found {
		return nil, repository.ErrNotFound
	}
	n := rw.v
	return &n, nil
}

func (r notificationRepo) MarkSeen(ctx context.Context, id string) error {
	return r.write(func(d *data) error {
		rw, ok := d.notifications[id]
		if !ok {
			return repository.ErrNotFound
		}
		rw.v.IsSeen = true
		rw.v.UpdatedAt = r.now()
		d.notifications[id] = rw
		return nil
	})
}

func (r notificationRepo) Delete(ctx context.Context, id string) error {
	return r.write(func(d *data) error {
		if _, ok := d.notifications[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.notifications, id)
		return nil
	})
}

func (r notificationRepo) ListFeed(ctx context.Context, userID string, offset, limit int) ([]entity.Notification, error) {
	var rows []row[entity.Notification]
	r.read(func(d *data) {
		for _, rw := range d.notifications {
			if rw.v.ToUserID == userID {
				rows = append(rows, rw)
			}
		}
	})
	byAge := newestFirst(func(n entity.Notification) time.Time { return n.CreatedAt })
	slices.SortFunc(rows, func(a, b row[entity.Notification]) int {
		if a.v.IsSeen != b.v.IsSeen {
			if !a.v.IsSeen {
				return -1
			}
			return 1
		}
		return byAge(a, b)
	})

	out := make([]entity.Notification, 0, max(limit, 0))
	for i := max(offset, 0); i < len(rows) && len(out) < limit; i++ {
		out = append(out, rows[i].v)
	}
	return out, nil
}

func (r notificationRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	r.read(func(d *data) {
		for _, rw := range d.notifications {
			if rw.v.ToUserID == userID {
				n++
			}
		}
	})
	return n, nil
}
