package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

// DealService runs the investment deal lifecycle: Pending, then Accepted or
// Rejected. Both outcomes are terminal.
type DealService struct {
	*Core
}

func NewDealService(core *Core) *DealService {
	return &DealService{Core: core}
}

type ProposeInput struct {
	CompanyID        string
	Amount           *decimal.Decimal
	EquityPercentage *decimal.Decimal
}

type AmendInput struct {
	Amount           *decimal.Decimal
	EquityPercentage *decimal.Decimal
}

var errDealTerminal = apperror.Conflict("deal has already been responded to")

func validateAmount(v *decimal.Decimal) error {
	if v == nil || !v.IsPositive() {
		return apperror.Validation("amount must be greater than zero")
	}
	if !entity.FitsMoney(*v) {
		return apperror.Validation("amount must have at most 2 decimal places and 18 integer digits")
	}
	return nil
}

func validateEquity(v *decimal.Decimal) error {
	if v == nil || !v.IsPositive() {
		return apperror.Validation("equity_percentage must be greater than zero")
	}
	if v.GreaterThan(entity.MaxEquityPercentage) {
		return apperror.Validation("equity_percentage cannot exceed 100")
	}
	if !entity.HasMoneyScale(*v) {
		return apperror.Validation("equity_percentage must have at most 2 decimal places")
	}
	return nil
}

// Propose opens a pending deal from an entitled investor and tells every
// active owner of the company about it.
func (s *DealService) Propose(ctx context.Context, investorID string, in ProposeInput) (*entity.InvestmentDeal, error) {
	if strings.TrimSpace(in.CompanyID) == "" {
		return nil, apperror.Validation("company_id is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := validateEquity(in.EquityPercentage); err != nil {
		return nil, err
	}

	var deal *entity.InvestmentDeal
	var notified int
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		investor, err := r.Users().GetByID(ctx, investorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Forbidden("only investors can propose deals")
			}
			return err
		}
		switch investor.Role {
		case entity.RoleInvestor:
		case entity.RoleBusiness:
			return apperror.Forbidden("only investors can propose deals")
		}
		if !investor.Entitled(s.now()) {
			return apperror.Forbidden("an active subscription is required to propose deals")
		}

		company, err := r.Companies().GetByID(ctx, in.CompanyID)
		if err != nil {
			return notFound(err, "company not found")
		}

		equity := *in.EquityPercentage
		deal = &entity.InvestmentDeal{
			CompanyID:        company.ID,
			InvestorID:       investor.ID,
			Amount:           *in.Amount,
			EquityPercentage: &equity,
			Status:           entity.DealPending,
		}
		if err := r.Deals().Create(ctx, deal); err != nil {
			return err
		}

		owners, err := r.Owners().ListActiveOwners(ctx, company.ID)
		if err != nil {
			return err
		}
		content := fmt.Sprintf("%s proposed an investment of %s for %s%% of %s",
			fullName(investor.FirstName, investor.LastName), deal.Amount.String(), equity.String(), company.Name)
		for _, o := range owners {
			if err := r.Notifications().Create(ctx, &entity.Notification{
				FromUserID: investor.ID,
				ToUserID:   o.UserID,
				Content:    content,
				Type:       entity.NotificationInvestmentUpdate,
			}); err != nil {
				return err
			}
		}
		notified = len(owners)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metricDealsProposed.Add(1)
	metricNotificationsSent.Add(string(entity.NotificationInvestmentUpdate), int64(notified))
	return deal, nil
}

// Amend changes the terms of the caller's own pending deal.
func (s *DealService) Amend(ctx context.Context, dealID, investorID string, in AmendInput) (*entity.InvestmentDeal, error) {
	if in.Amount == nil && in.EquityPercentage == nil {
		return nil, apperror.Validation("nothing to update: provide amount or equity_percentage")
	}
	if in.Amount != nil {
		if err := validateAmount(in.Amount); err != nil {
			return nil, err
		}
	}
	if in.EquityPercentage != nil {
		if err := validateEquity(in.EquityPercentage); err != nil {
			return nil, err
		}
	}

	var deal *entity.InvestmentDeal
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		deal, err = r.Deals().GetByID(ctx, dealID)
		if err != nil {
			return notFound(err, "deal not found")
		}
		// Someone else's deal is reported as missing.
		if deal.InvestorID != investorID {
			return apperror.NotFound("deal not found")
		}
		if deal.Status.IsTerminal() {
			return errDealTerminal
		}

		if in.Amount != nil {
			deal.Amount = *in.Amount
		}
		if in.EquityPercentage != nil {
			equity := *in.EquityPercentage
			deal.EquityPercentage = &equity
		}
		return guardedDealError(r.Deals().UpdateTerms(ctx, deal))
	})
	if err != nil {
		return nil, err
	}
	return deal, nil
}

// ListForInvestor returns the investor's deals with their company cards,
// newest first. An empty result is NotFound.
func (s *DealService) ListForInvestor(ctx context.Context, investorID string) ([]entity.DealWithCompany, error) {
	deals, err := s.Store.Repos().Deals().ListByInvestor(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return nil, apperror.NotFound("no deals found")
	}
	return deals, nil
}

// ListForCompany returns the deals made to a company the caller actively owns.
func (s *DealService) ListForCompany(ctx context.Context, callerID, companyID string) ([]entity.InvestmentDeal, error) {
	r := s.Store.Repos()
	if _, err := r.Companies().GetByID(ctx, companyID); err != nil {
		return nil, notFound(err, "company not found")
	}
	if err := requireActiveOwner(ctx, r, callerID, companyID, "only active owners can view company deals"); err != nil {
		return nil, err
	}
	deals, err := r.Deals().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return nil, apperror.NotFound("no deals found")
	}
	return deals, nil
}

// Respond accepts or rejects a pending deal on behalf of the company. Of two
// concurrent responders exactly one wins; the other gets Conflict.
func (s *DealService) Respond(ctx context.Context, dealID, callerID, status string) (*entity.InvestmentDeal, error) {
	next, ok := entity.ParseDealStatus(status)
	if !ok || !next.IsTerminal() {
		return nil, apperror.Validation("status must be Accepted or Rejected")
	}

	var (
		deal     *entity.InvestmentDeal
		investor *entity.User
		company  *entity.Company
	)
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		caller, err := r.Users().GetByID(ctx, callerID)
		if err != nil {
			return notFound(err, "user not found")
		}
		current, err := r.Deals().GetByID(ctx, dealID)
		if err != nil {
			return notFound(err, "deal not found")
		}
		if err := requireActiveOwner(ctx, r, caller.ID, current.CompanyID, "only active owners can respond to this deal"); err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return errDealTerminal
		}

		if deal, err = r.Deals().TransitionStatus(ctx, current.ID, next); err != nil {
			return guardedDealError(err)
		}
		if company, err = r.Companies().GetByID(ctx, deal.CompanyID); err != nil {
			return err
		}
		if investor, err = r.Users().GetByID(ctx, deal.InvestorID); err != nil {
			return err
		}

		return r.Notifications().Create(ctx, &entity.Notification{
			FromUserID: caller.ID,
			ToUserID:   investor.ID,
			Content:    fmt.Sprintf("%s %s your investment of %s", company.Name, strings.ToLower(string(next)), deal.Amount.String()),
			Type:       entity.NotificationDealStatus,
		})
	})
	if err != nil {
		return nil, err
	}

	metricDealsResponded.Add(string(next), 1)
	metricNotificationsSent.Add(string(entity.NotificationDealStatus), 1)
	s.publish(ctx, mailer.EmailJob{
		To:       investor.Email,
		Template: mailtpl.DealStatus,
		Data: mailtpl.NewDealStatusData(s.Config, investor.FirstName, investor.Email,
			company.Name, string(next), deal.Amount.String(), mailtpl.WithTime(s.now())),
	})
	return deal, nil
}

func guardedDealError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStateChanged):
		return errDealTerminal
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("deal not found")
	default:
		return err
	}
}
