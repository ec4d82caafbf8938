package repository

import (
	"context"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	MarkSeen(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// ListFeed returns unseen notifications before seen ones, newest first
	// within each group.
	ListFeed(ctx context.Context, userID string, offset, limit int) ([]entity.Notification, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}
