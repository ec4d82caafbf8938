package application

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
)

func TestRegisterCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	investor := f.user(t, "investor", entity.RoleInvestor)
	svc := NewCompanyService(f.core)
	in := RegisterCompanyInput{Name: "Acme", ContactEmail: "hi@acme.example", Valuation: decimal.NewFromInt(10)}

	c, err := svc.RegisterCompany(ctx, founder.ID, in)
	require.NoError(t, err)

	rel, err := f.store.Repos().Owners().GetByUserAndCompany(ctx, founder.ID, c.ID)
	require.NoError(t, err)
	require.True(t, rel.Active)
	require.Equal(t, string(entity.RoleBusiness), rel.Role)

	_, err = svc.RegisterCompany(ctx, investor.ID, RegisterCompanyInput{Name: "X", ContactEmail: "x@x.example"})
	require.ErrorIs(t, err, apperror.ErrForbidden)

	in.ContactEmail = "HI@acme.example"
	_, err = svc.RegisterCompany(ctx, founder.ID, in)
	require.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.RegisterCompany(ctx, founder.ID, RegisterCompanyInput{Name: "Neg", ContactEmail: "n@n.example", Valuation: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.RegisterCompany(ctx, founder.ID, RegisterCompanyInput{Name: "Frac", ContactEmail: "f@f.example", Valuation: decimal.RequireFromString("1.005")})
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.RegisterCompany(ctx, founder.ID, RegisterCompanyInput{Name: "Big", ContactEmail: "b@b.example", Valuation: decimal.New(1, 18)})
	require.ErrorIs(t, err, apperror.ErrValidation)

	got, err := svc.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)
	_, err = svc.GetCompany(ctx, "missing")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFilterCompanies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		f.company(t, founder, name)
	}
	svc := NewCompanyService(f.core)

	page, err := svc.Filter(ctx, CompanyQuery{SortBy: "name", Order: "DESC", Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.Equal(t, "charlie", page.Companies[0].Name)
	require.Equal(t, "bravo", page.Companies[1].Name)

	_, err = svc.Filter(ctx, CompanyQuery{SortBy: "password"})
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.Filter(ctx, CompanyQuery{Order: "sideways"})
	require.ErrorIs(t, err, apperror.ErrValidation)

	lo, hi := 2020, 2010
	_, err = svc.Filter(ctx, CompanyQuery{FoundedMin: &lo, FoundedMax: &hi})
	require.ErrorIs(t, err, apperror.ErrValidation)

	byName, err := svc.Filter(ctx, CompanyQuery{Name: " ALP ", Industry: "te"})
	require.NoError(t, err)
	require.Equal(t, 1, byName.Total)
	require.Equal(t, "alpha", byName.Companies[0].Name)

	none, err := svc.Filter(ctx, CompanyQuery{Industry: "Mining"})
	require.NoError(t, err)
	require.Empty(t, none.Companies)
	require.Equal(t, 0, none.TotalPages)
}

func TestUploadCompanyAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.user(t, "founder", entity.RoleBusiness)
	outsider := f.user(t, "outsider", entity.RoleBusiness)
	c := f.company(t, founder, "acme")
	svc := NewCompanyService(f.core)

	_, err := svc.UploadCompanyAvatar(ctx, founder.ID, c.ID, "logo.png", "image/png", strings.NewReader("png"))
	require.ErrorIs(t, err, errStorageDisabled)

	up := &memUploader{}
	f.core.Uploader = up

	_, err = svc.UploadCompanyAvatar(ctx, outsider.ID, c.ID, "logo.png", "image/png", strings.NewReader("png"))
	require.ErrorIs(t, err, apperror.ErrForbidden)

	url, err := svc.UploadCompanyAvatar(ctx, founder.ID, c.ID, "logo.PNG", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, up.paths, 1)
	require.True(t, strings.HasPrefix(up.paths[0], "company-avatars/"+c.ID+"/"))
	require.True(t, strings.HasSuffix(up.paths[0], ".png"))

	got, err := svc.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, url, got.AvatarURL)
}
