package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
)

func TestNotificationCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := f.user(t, "from", entity.RoleInvestor)
	to := f.user(t, "to", entity.RoleBusiness)
	svc := NewNotificationService(f.core)

	_, err := svc.Create(ctx, from.ID, to.ID, "  ", "general")
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.Create(ctx, from.ID, to.ID, "hi", "shout")
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.Create(ctx, from.ID, "nobody", "hi", "general")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	n, err := svc.Create(ctx, from.ID, to.ID, "hi", "general")
	require.NoError(t, err)
	require.False(t, n.IsSeen)
}

func TestNotification_SeenAndDeletePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := f.user(t, "from", entity.RoleInvestor)
	to := f.user(t, "to", entity.RoleBusiness)
	other := f.user(t, "other", entity.RoleBusiness)
	svc := NewNotificationService(f.core)

	n, err := svc.Create(ctx, from.ID, to.ID, "hello", "general")
	require.NoError(t, err)

	require.ErrorIs(t, svc.MarkSeen(ctx, n.ID, from.ID), apperror.ErrForbidden)
	require.NoError(t, svc.MarkSeen(ctx, n.ID, to.ID))
	require.ErrorIs(t, svc.MarkSeen(ctx, "missing", to.ID), apperror.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, n.ID, other.ID), apperror.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, n.ID, from.ID))
	require.ErrorIs(t, svc.Delete(ctx, n.ID, to.ID), apperror.ErrNotFound)
}

func TestFeed_PaginatesAndListsInvitations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	me := f.user(t, "me", entity.RoleBusiness)
	c := f.company(t, founder, "acme")
	svc := NewNotificationService(f.core)

	var ids []string
	for i := range 11 {
		n, err := svc.Create(ctx, founder.ID, me.ID, fmt.Sprintf("note %d", i), "general")
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	require.NoError(t, svc.MarkSeen(ctx, ids[10], me.ID))

	_, err := NewOwnershipService(f.core).Invite(ctx, founder.ID, InviteInput{CompanyID: c.ID, InviteeID: me.ID})
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, me.ID, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 1, feed.Page)
	require.Equal(t, 12, feed.TotalNotifications, "eleven notes plus the invitation notice")
	require.Equal(t, 3, feed.TotalPages)
	require.Len(t, feed.Notifications, 5)
	require.Equal(t, "acme", feed.Invitations[0].Company.Name)

	last, err := svc.Feed(ctx, me.ID, 3, 5)
	require.NoError(t, err)
	require.Len(t, last.Notifications, 2)
	require.Equal(t, ids[10], last.Notifications[1].ID, "seen notes sort last")

	empty, err := svc.Feed(ctx, founder.ID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, empty.Page)
	require.Empty(t, empty.Notifications)
	require.Empty(t, empty.Invitations)
}
