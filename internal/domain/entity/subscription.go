package entity

import "time"

// SubscriptionPeriod is the length of one purchased month.
const SubscriptionPeriod = 30 * 24 * time.Hour

// MaxSubscriptionMonths caps a single purchase. Larger values would overflow
// time.Duration in SubscriptionWindow.
const MaxSubscriptionMonths = 1200

// IsEntitled is the subscription gate: a principal is entitled when it has paid
// and its subscription ends strictly after now.
func IsEntitled(paid bool, end *time.Time, now time.Time) bool {
	return paid && end != nil && end.After(now)
}

// SubscriptionWindow returns the period bought by a completed payment of
// durationMonths starting at now.
func SubscriptionWindow(now time.Time, durationMonths int) (start, end time.Time) {
	return now, now.Add(time.Duration(durationMonths) * SubscriptionPeriod)
}

// SubjectType names what a payment pays for.
type SubjectType string

const (
	SubjectUser    SubjectType = "user"
	SubjectCompany SubjectType = "company"
)

// PaymentEvent records a processed payment completion. EventID is unique, which
// is what makes replays of the same completion a no-op.
type PaymentEvent struct {
	EventID        string
	SubjectType    SubjectType
	SubjectID      string
	AmountPaid     string
	DurationMonths int
	PeriodStart    time.Time
	PeriodEnd      time.Time
	ProcessedAt    time.Time
}
