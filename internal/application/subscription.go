package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

// SubscriptionService applies completed payments to users and companies.
type SubscriptionService struct {
	*Core
}

func NewSubscriptionService(core *Core) *SubscriptionService {
	return &SubscriptionService{Core: core}
}

// PaymentCompletion is a completed checkout as reported by the payment
// provider. OwnerID names the paying user when the subject is a company.
type PaymentCompletion struct {
	EventID        string
	SubjectType    entity.SubjectType
	SubjectID      string
	OwnerID        string
	AmountPaid     string
	DurationMonths int
}

// PaymentResult reports the stored period. Replayed is set when the event id
// had already been processed and nothing changed.
type PaymentResult struct {
	Event    entity.PaymentEvent
	Replayed bool
}

// ApplyPaymentCompletion marks the subject as paid for DurationMonths periods
// starting now. It is idempotent on EventID.
func (s *SubscriptionService) ApplyPaymentCompletion(ctx context.Context, in PaymentCompletion) (*PaymentResult, error) {
	if strings.TrimSpace(in.EventID) == "" {
		return nil, apperror.Validation("event id is required")
	}
	if strings.TrimSpace(in.SubjectID) == "" {
		return nil, apperror.Validation("payment subject is required")
	}
	if in.DurationMonths <= 0 {
		return nil, apperror.Validation("duration must be at least one month")
	}
	if in.DurationMonths > entity.MaxSubscriptionMonths {
		return nil, apperror.Validation(fmt.Sprintf("duration must be at most %d months", entity.MaxSubscriptionMonths))
	}
	switch in.SubjectType {
	case entity.SubjectUser, entity.SubjectCompany:
	default:
		return nil, apperror.Validation("unknown payment subject type")
	}

	var (
		res       PaymentResult
		recipient *entity.User
		subject   string
	)
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		prior, err := r.Payments().Get(ctx, in.EventID)
		switch {
		case err == nil:
			res = PaymentResult{Event: *prior, Replayed: true}
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		switch in.SubjectType {
		case entity.SubjectUser:
			if recipient, err = r.Users().GetByID(ctx, in.SubjectID); err != nil {
				return notFound(err, "user not found")
			}
			subject = "your account"
		case entity.SubjectCompany:
			company, err := r.Companies().GetByID(ctx, in.SubjectID)
			if err != nil {
				return notFound(err, "company not found")
			}
			subject = company.Name
			if in.OwnerID != "" {
				recipient, err = r.Users().GetByID(ctx, in.OwnerID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}
		}

		start, end := entity.SubscriptionWindow(s.now(), in.DurationMonths)
		ev := &entity.PaymentEvent{
			EventID:        in.EventID,
			SubjectType:    in.SubjectType,
			SubjectID:      in.SubjectID,
			AmountPaid:     in.AmountPaid,
			DurationMonths: in.DurationMonths,
			PeriodStart:    start,
			PeriodEnd:      end,
		}
		if err := r.Payments().Record(ctx, ev); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return err
			}
			// A concurrent delivery of the same event committed first.
			prior, err := r.Payments().Get(ctx, in.EventID)
			if err != nil {
				return err
			}
			res = PaymentResult{Event: *prior, Replayed: true}
			recipient = nil
			return nil
		}

		switch in.SubjectType {
		case entity.SubjectUser:
			err = r.Users().UpdateSubscription(ctx, in.SubjectID, start, end)
		case entity.SubjectCompany:
			err = r.Companies().UpdateSubscription(ctx, in.SubjectID, start, end)
		}
		if err != nil {
			return notFound(err, "payment subject not found")
		}
		res = PaymentResult{Event: *ev}

		if recipient == nil {
			return nil
		}
		return r.Notifications().Create(ctx, &entity.Notification{
			ToUserID: recipient.ID,
			Content:  fmt.Sprintf("Subscription for %s is active until %s", subject, end.UTC().Format("02 Jan 2006")),
			Type:     entity.NotificationSubscription,
		})
	})
	if err != nil {
		return nil, err
	}

	if res.Replayed {
		metricPaymentsReplayed.Add(1)
		s.log().WithField("event_id", in.EventID).Info("payment event already processed")
		return &res, nil
	}

	metricPaymentsApplied.Add(1)
	if in.SubjectType == entity.SubjectCompany {
		s.invalidateCompany(ctx, in.SubjectID)
	}
	if recipient != nil {
		metricNotificationsSent.Add(string(entity.NotificationSubscription), 1)
		s.publish(ctx, mailer.EmailJob{
			To:       recipient.Email,
			Template: mailtpl.SubscriptionActivated,
			Data: mailtpl.NewSubscriptionActivatedData(s.Config, recipient.FirstName, recipient.Email,
				res.Event.PeriodEnd, mailtpl.WithCompany(companyLabel(in.SubjectType, subject)), mailtpl.WithTime(s.now())),
		})
	}
	return &res, nil
}

func companyLabel(t entity.SubjectType, name string) string {
	if t == entity.SubjectCompany {
		return name
	}
	return ""
}
