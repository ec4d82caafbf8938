package repository

import (
	"context"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
)

type PaymentRepository interface {
	// Record stores a processed payment event. It returns ErrDuplicate when the
	// event id was already recorded.
	Record(ctx context.Context, ev *entity.PaymentEvent) error
	Get(ctx context.Context, eventID string) (*entity.PaymentEvent, error)
}
