package application

import (
	"context"
	"strings"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

type NotificationService struct {
	*Core
}

func NewNotificationService(core *Core) *NotificationService {
	return &NotificationService{Core: core}
}

// Feed is one page of a user's notifications plus their pending invitations.
type Feed struct {
	Notifications      []entity.Notification
	Invitations        []entity.PendingInvitation
	Page               int
	TotalPages         int
	TotalNotifications int
}

func (s *NotificationService) Create(ctx context.Context, fromUserID, toUserID, content, typ string) (*entity.Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("content is required")
	}
	nt, ok := entity.ParseNotificationType(typ)
	if !ok {
		return nil, apperror.Validation("unknown notification type")
	}
	if strings.TrimSpace(toUserID) == "" {
		return nil, apperror.Validation("to_user_id is required")
	}

	r := s.Store.Repos()
	if _, err := r.Users().GetByID(ctx, toUserID); err != nil {
		return nil, notFound(err, "recipient not found")
	}
	n := &entity.Notification{FromUserID: fromUserID, ToUserID: toUserID, Content: content, Type: nt}
	if err := r.Notifications().Create(ctx, n); err != nil {
		return nil, notFound(err, "recipient not found")
	}
	metricNotificationsSent.Add(string(nt), 1)
	return n, nil
}

// MarkSeen is allowed for the recipient only.
func (s *NotificationService) MarkSeen(ctx context.Context, id, callerID string) error {
	r := s.Store.Repos()
	n, err := r.Notifications().GetByID(ctx, id)
	if err != nil {
		return notFound(err, "notification not found")
	}
	if n.ToUserID != callerID {
		return apperror.Forbidden("not allowed to update this notification")
	}
	return notFound(r.Notifications().MarkSeen(ctx, id), "notification not found")
}

// Delete is allowed for the sender and the recipient.
func (s *NotificationService) Delete(ctx context.Context, id, callerID string) error {
	r := s.Store.Repos()
	n, err := r.Notifications().GetByID(ctx, id)
	if err != nil {
		return notFound(err, "notification not found")
	}
	if n.ToUserID != callerID && n.FromUserID != callerID {
		return apperror.Forbidden("not allowed to delete this notification")
	}
	return notFound(r.Notifications().Delete(ctx, id), "notification not found")
}

// Feed lists unseen notifications before seen ones, newest first in each
// group. Page is 1-based.
func (s *NotificationService) Feed(ctx context.Context, userID string, page, limit int) (*Feed, error) {
	page, limit, offset := helpers.Paginate(page, limit)
	r := s.Store.Repos()

	total, err := r.Notifications().CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := r.Notifications().ListFeed(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	invitations, err := r.Owners().ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []entity.Notification{}
	}
	if invitations == nil {
		invitations = []entity.PendingInvitation{}
	}
	return &Feed{
		Notifications:      items,
		Invitations:        invitations,
		Page:               page,
		TotalPages:         helpers.TotalPages(total, limit),
		TotalNotifications: total,
	}, nil
}
