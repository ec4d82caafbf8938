package entity

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationInvestmentUpdate NotificationType = "Investment_update"
	NotificationDealStatus       NotificationType = "deal_status"
	NotificationSubscription     NotificationType = "subscription"
	NotificationGeneral          NotificationType = "general"
)

// ParseNotificationType accepts the exact wire names only.
func ParseNotificationType(s string) (NotificationType, bool) {
	switch NotificationType(s) {
	case NotificationInvestmentUpdate, NotificationDealStatus, NotificationSubscription, NotificationGeneral:
		return NotificationType(s), true
	default:
		return "", false
	}
}

// Notification is a directed message between two users.
type Notification struct {
	ID         string
	FromUserID string
	ToUserID   string
	Content    string
	Type       NotificationType
	IsSeen     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
