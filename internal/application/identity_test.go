package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

func newIdentity(f *fixture) *IdentityService {
	return NewIdentityService(f.core, helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newIdentity(f)
	in := RegisterInput{FirstName: "Grace", LastName: "Hopper", Email: " Grace@Example.com ", Password: "Secr3t!pass", ConfirmPassword: "Secr3t!pass", UserType: "investor"}

	u, err := svc.Register(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", u.Email)
	require.Equal(t, entity.RoleInvestor, u.Role)
	require.NotEqual(t, in.Password, u.Password)

	_, err = svc.Register(ctx, in)
	require.ErrorIs(t, err, apperror.ErrConflict)

	bad := in
	bad.UserType = "admin"
	_, err = svc.Register(ctx, bad)
	require.ErrorIs(t, err, apperror.ErrValidation)
	bad = in
	bad.ConfirmPassword = "other"
	_, err = svc.Register(ctx, bad)
	require.ErrorIs(t, err, apperror.ErrValidation)

	_, _, err = svc.Login(ctx, "grace@example.com", "wrong")
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, _, err = svc.Login(ctx, "nobody@example.com", "Secr3t!pass")
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	got, pair, err := svc.Login(ctx, "GRACE@example.com", "Secr3t!pass")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, "Investor", claims.Role)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, apperror.ErrUnauthorized, "access token is not a refresh token")
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	investor := f.subscriber(t, "investor", entity.RoleInvestor)
	c := f.company(t, founder, "acme")
	svc := newIdentity(f)

	_, err := NewDealService(f.core).Propose(ctx, investor.ID, ProposeInput{CompanyID: c.ID, Amount: dec("10"), EquityPercentage: dec("1")})
	require.NoError(t, err)

	p, err := svc.GetProfile(ctx, founder.ID)
	require.NoError(t, err)
	require.Len(t, p.Companies, 1)
	require.Equal(t, "acme", p.Companies[0].Name)
	require.Empty(t, p.Deals)

	p, err = svc.GetProfile(ctx, investor.ID)
	require.NoError(t, err)
	require.Empty(t, p.Companies)
	require.Len(t, p.Deals, 1)
	require.Equal(t, c.ID, p.Deals[0].Company.ID)

	_, err = svc.GetProfile(ctx, "ghost")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "pic", entity.RoleInvestor)
	f.core.Uploader = &memUploader{}
	svc := newIdentity(f)

	url, err := svc.UploadAvatar(ctx, u.ID, "me.jpg", "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)
	require.Contains(t, url, "avatars/"+u.ID+"/")

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, url, got.AvatarURL)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("x", 80)
	_, err := NewIdentityService(f.core, nil).Register(context.Background(), RegisterInput{
		FirstName:       "Long",
		LastName:        "Password",
		Email:           "long@example.com",
		Password:        long,
		ConfirmPassword: long,
		UserType:        "Investor",
	})
	require.ErrorIs(t, err, apperror.ErrValidation)
}
