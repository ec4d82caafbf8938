//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*Store, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())
	require.NoError(t, RunMigrations(dsn, "up", logrus.New()))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}
	return NewStore(pool), cleanup
}

func TestIntegration_OwnershipAndDeals(t *testing.T) {
	ctx := context.Background()
	store, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()
	repos := store.Repos()

	founder := &entity.User{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "x", Role: entity.RoleBusiness}
	investor := &entity.User{FirstName: "Ivy", LastName: "I", Email: "ivy@example.com", Password: "x", Role: entity.RoleInvestor}
	require.NoError(t, repos.Users().Create(ctx, founder))
	require.NoError(t, repos.Users().Create(ctx, investor))
	require.ErrorIs(t, repos.Users().Create(ctx, &entity.User{FirstName: "a", LastName: "b", Email: "ADA@example.com", Password: "x", Role: entity.RoleInvestor}), repository.ErrDuplicate)

	company := &entity.Company{Name: "Engines", ContactEmail: "hi@engines.example", Industry: "Tech", Valuation: decimal.NewFromInt(1000)}
	require.NoError(t, repos.Companies().Create(ctx, company))

	t.Run("transaction rolls back", func(t *testing.T) {
		err := store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
			require.NoError(t, r.Owners().Create(ctx, &entity.CompanyOwner{UserID: founder.ID, CompanyID: company.ID, Role: "Founder", Active: true}))
			return fmt.Errorf("abort")
		})
		require.Error(t, err)
		ok, err := repos.Owners().IsActiveOwner(ctx, founder.ID, company.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("invitation accepted once", func(t *testing.T) {
		rel := &entity.CompanyOwner{UserID: investor.ID, CompanyID: company.ID, Role: "Owner"}
		require.NoError(t, repos.Owners().Create(ctx, rel))
		require.ErrorIs(t, repos.Owners().Create(ctx, &entity.CompanyOwner{UserID: investor.ID, CompanyID: company.ID, Role: "Owner"}), repository.ErrDuplicate)

		pending, err := repos.Owners().ListPendingForUser(ctx, investor.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, "Engines", pending[0].Company.Name)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if repos.Owners().Activate(ctx, rel.RelID) == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), wins.Load())
	})

	t.Run("deal responds once", func(t *testing.T) {
		equity := decimal.NewFromInt(10)
		deal := &entity.InvestmentDeal{CompanyID: company.ID, InvestorID: investor.ID, Amount: decimal.NewFromInt(500), EquityPercentage: &equity, Status: entity.DealPending}
		require.NoError(t, repos.Deals().Create(ctx, deal))

		got, err := repos.Deals().GetByID(ctx, deal.ID)
		require.NoError(t, err)
		require.True(t, got.EquityPercentage.Equal(equity))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repos.Deals().TransitionStatus(ctx, deal.ID, entity.DealAccepted); err == nil {
					wins.Add(1)
				} else {
					require.ErrorIs(t, err, repository.ErrStateChanged)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), wins.Load())

		listed, err := repos.Deals().ListByInvestor(ctx, investor.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, entity.DealAccepted, listed[0].Deal.Status)
	})

	t.Run("filter matches name and industry substrings", func(t *testing.T) {
		out, total, err := repos.Companies().Filter(ctx, entity.CompanyFilter{Name: "GINE", Industry: "ec", Limit: 10})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, company.ID, out[0].ID)

		_, total, err = repos.Companies().Filter(ctx, entity.CompanyFilter{Industry: "Mining", Limit: 10})
		require.NoError(t, err)
		require.Zero(t, total)
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		_, err := repos.Deals().GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repos.Companies().GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("payment event recorded once", func(t *testing.T) {
		ev := &entity.PaymentEvent{EventID: "evt_1", SubjectType: entity.SubjectUser, SubjectID: investor.ID, DurationMonths: 1}
		ev.PeriodStart, ev.PeriodEnd = entity.SubscriptionWindow(founder.CreatedAt, 1)
		require.NoError(t, repos.Payments().Record(ctx, ev))
		require.ErrorIs(t, repos.Payments().Record(ctx, ev), repository.ErrDuplicate)
	})
}
