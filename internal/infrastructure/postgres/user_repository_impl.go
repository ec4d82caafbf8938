package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

const userColumns = `id::text, first_name, last_name, email, password_hash, user_type, paid,
	subscription_start, subscription_end, nationality, avatar_url, created_at, updated_at`

type UserRepository struct {
	q querier
}

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &role, &u.Paid,
		&u.SubscriptionStart, &u.SubscriptionEnd, &u.Nationality, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	u.Role = entity.UserRole(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, user_type, nationality, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.Password, string(u.Role), u.Nationality, u.AvatarURL)

	return mapError(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.q.Exec(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = now()
		WHERE id = $2
	`, avatarURL, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateSubscription(ctx context.Context, id string, start, end time.Time) error {
	res, err := r.q.Exec(ctx, `
		UPDATE users
		SET paid = TRUE, subscription_start = $1, subscription_end = $2, updated_at = now()
		WHERE id = $3
	`, start, end, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
