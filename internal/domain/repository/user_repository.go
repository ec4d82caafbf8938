package repository

import (
	"context"
	"time"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdateSubscription(ctx context.Context, id string, start, end time.Time) error
}
