package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

func TestApplyPayment_UserBecomesEntitledAndCanPropose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	investor := f.user(t, "investor", entity.RoleInvestor)
	c := f.company(t, founder, "acme")
	deals := NewDealService(f.core)
	in := ProposeInput{CompanyID: c.ID, Amount: dec("1000"), EquityPercentage: dec("2")}

	_, err := deals.Propose(ctx, investor.ID, in)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	res, err := NewSubscriptionService(f.core).ApplyPaymentCompletion(ctx, PaymentCompletion{
		EventID: "evt_1", SubjectType: entity.SubjectUser, SubjectID: investor.ID, AmountPaid: "29.00", DurationMonths: 3,
	})
	require.NoError(t, err)
	require.False(t, res.Replayed)
	require.Equal(t, testNow, res.Event.PeriodStart)
	require.Equal(t, testNow.Add(90*24*time.Hour), res.Event.PeriodEnd)

	u, err := f.store.Repos().Users().GetByID(ctx, investor.ID)
	require.NoError(t, err)
	require.True(t, u.Entitled(testNow))

	_, err = deals.Propose(ctx, investor.ID, in)
	require.NoError(t, err)

	notes := f.notificationsFor(t, investor.ID)
	require.Len(t, notes, 1)
	require.Equal(t, entity.NotificationSubscription, notes[0].Type)
	require.Empty(t, notes[0].FromUserID)

	jobs := f.pub.Jobs()
	require.Len(t, jobs, 1)
	require.Equal(t, mailtpl.SubscriptionActivated, jobs[0].Template)
}

func TestApplyPayment_ReplayIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	investor := f.user(t, "investor", entity.RoleInvestor)
	svc := NewSubscriptionService(f.core)
	in := PaymentCompletion{EventID: "evt_2", SubjectType: entity.SubjectUser, SubjectID: investor.ID, DurationMonths: 1}

	first, err := svc.ApplyPaymentCompletion(ctx, in)
	require.NoError(t, err)

	in.DurationMonths = 12
	again, err := svc.ApplyPaymentCompletion(ctx, in)
	require.NoError(t, err)
	require.True(t, again.Replayed)
	require.Equal(t, first.Event.PeriodEnd, again.Event.PeriodEnd)

	u, err := f.store.Repos().Users().GetByID(ctx, investor.ID)
	require.NoError(t, err)
	require.Equal(t, first.Event.PeriodEnd, *u.SubscriptionEnd)
	require.Len(t, f.notificationsFor(t, investor.ID), 1)
	require.Len(t, f.pub.Jobs(), 1)
}

func TestApplyPayment_CompanyNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	c := f.company(t, founder, "acme")

	_, err := NewSubscriptionService(f.core).ApplyPaymentCompletion(ctx, PaymentCompletion{
		EventID: "evt_3", SubjectType: entity.SubjectCompany, SubjectID: c.ID, OwnerID: founder.ID, DurationMonths: 2,
	})
	require.NoError(t, err)

	got, err := f.store.Repos().Companies().GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.Entitled(testNow))

	notes := f.notificationsFor(t, founder.ID)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0].Content, "acme")
}

func TestApplyPayment_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSubscriptionService(f.core)
	u := f.user(t, "payer", entity.RoleInvestor)

	cases := map[string]PaymentCompletion{
		"no event":     {SubjectType: entity.SubjectUser, SubjectID: u.ID, DurationMonths: 1},
		"no subject":   {EventID: "e", SubjectType: entity.SubjectUser, DurationMonths: 1},
		"zero months":  {EventID: "e", SubjectType: entity.SubjectUser, SubjectID: u.ID},
		"unknown type": {EventID: "e", SubjectType: "team", SubjectID: u.ID, DurationMonths: 1},
		"too many":     {EventID: "e", SubjectType: entity.SubjectUser, SubjectID: u.ID, DurationMonths: entity.MaxSubscriptionMonths + 1},
		"overflowing":  {EventID: "e", SubjectType: entity.SubjectUser, SubjectID: u.ID, DurationMonths: 4000},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ApplyPaymentCompletion(ctx, in)
			require.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	_, err := svc.ApplyPaymentCompletion(ctx, PaymentCompletion{EventID: "evt_missing", SubjectType: entity.SubjectCompany, SubjectID: "nope", DurationMonths: 1})
	require.ErrorIs(t, err, apperror.ErrNotFound)

	// A failed event id is not burned.
	_, err = f.store.Repos().Payments().Get(ctx, "evt_missing")
	require.Error(t, err)
}

func TestApplyPayment_LongestDurationStaysEntitled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "longterm", entity.RoleInvestor)

	res, err := NewSubscriptionService(f.core).ApplyPaymentCompletion(ctx, PaymentCompletion{
		EventID:        "evt_longest",
		SubjectType:    entity.SubjectUser,
		SubjectID:      u.ID,
		DurationMonths: entity.MaxSubscriptionMonths,
	})
	require.NoError(t, err)
	require.True(t, res.Event.PeriodEnd.After(testNow))

	got, err := f.store.Repos().Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Entitled(testNow))
}
