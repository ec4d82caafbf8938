package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/invest-marketplace/config"
	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	pginfra "github.com/oksasatya/invest-marketplace/internal/infrastructure/postgres"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

const seedPassword = "password123"

// seed creates a business user owning one company and an investor, going
// through the same services the API uses. Re-running skips existing rows.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	core := application.NewCore(pginfra.NewStore(pool), nil, cfg, logger)
	identity := application.NewIdentityService(core, nil)
	companies := application.NewCompanyService(core)

	founder, err := ensureUser(ctx, core, identity, application.RegisterInput{
		FirstName:   "Bima",
		LastName:    "Santoso",
		Email:       "founder@example.com",
		UserType:    string(entity.RoleBusiness),
		Nationality: "Indonesia",
	})
	if err != nil {
		logger.Fatalf("failed to seed business user: %v", err)
	}
	investor, err := ensureUser(ctx, core, identity, application.RegisterInput{
		FirstName:   "Ivy",
		LastName:    "Hartono",
		Email:       "investor@example.com",
		UserType:    string(entity.RoleInvestor),
		Nationality: "Singapore",
	})
	if err != nil {
		logger.Fatalf("failed to seed investor: %v", err)
	}

	co, err := companies.RegisterCompany(ctx, founder.ID, application.RegisterCompanyInput{
		Name:          "Nusantara Agritech",
		Description:   "Cold-chain logistics for smallholder farmers",
		ContactNumber: "+6281100000000",
		ContactEmail:  "hello@nusantara-agritech.example",
		Industry:      "Agriculture",
		Location:      "Bandung",
		WebLink:       "https://nusantara-agritech.example",
		FounderYear:   2019,
		Valuation:     decimal.NewFromInt(2_500_000),
		OwnerRole:     "CEO",
	})
	switch {
	case errors.Is(err, apperror.ErrConflict):
		fmt.Println("company already seeded")
	case err != nil:
		logger.Fatalf("failed to seed company: %v", err)
	default:
		fmt.Printf("seeded company: id=%s name=%s\n", co.ID, co.Name)
	}

	fmt.Printf("seeded business user: id=%s email=%s password=%s\n", founder.ID, founder.Email, seedPassword)
	fmt.Printf("seeded investor: id=%s email=%s password=%s\n", investor.ID, investor.Email, seedPassword)
}

func ensureUser(ctx context.Context, core *application.Core, identity *application.IdentityService, in application.RegisterInput) (*entity.User, error) {
	in.Password, in.ConfirmPassword = seedPassword, seedPassword
	u, err := identity.Register(ctx, in)
	if errors.Is(err, apperror.ErrConflict) {
		return core.Store.Repos().Users().GetByEmail(ctx, in.Email)
	}
	return u, err
}
