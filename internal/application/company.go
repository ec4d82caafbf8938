package application

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

const companyCacheTTL = 10 * time.Minute

type CompanyService struct {
	*Core
}

func NewCompanyService(core *Core) *CompanyService {
	return &CompanyService{Core: core}
}

type RegisterCompanyInput struct {
	Name          string
	Description   string
	ContactNumber string
	ContactEmail  string
	Industry      string
	Location      string
	WebLink       string
	StockMarket   bool
	FounderYear   int
	Valuation     decimal.Decimal
	// OwnerRole is the founder's role on the company, defaulting to the
	// founder's account type.
	OwnerRole string
}

// RegisterCompany creates a company and makes the calling Business user its
// first active owner, in one transaction.
func (s *CompanyService) RegisterCompany(ctx context.Context, userID string, in RegisterCompanyInput) (*entity.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if in.Name == "" || in.ContactEmail == "" {
		return nil, apperror.Validation("name and contact_email are required")
	}
	if in.Valuation.IsNegative() {
		return nil, apperror.Validation("valuation cannot be negative")
	}
	if !entity.FitsMoney(in.Valuation) {
		return nil, apperror.Validation("valuation must have at most 2 decimal places and 18 integer digits")
	}

	var company *entity.Company
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		user, err := r.Users().GetByID(ctx, userID)
		if err != nil {
			return notFound(err, "user not found")
		}
		switch user.Role {
		case entity.RoleBusiness:
		case entity.RoleInvestor:
			return apperror.Forbidden("only business accounts can register a company")
		}

		company = &entity.Company{
			Name:          in.Name,
			Description:   in.Description,
			ContactNumber: in.ContactNumber,
			ContactEmail:  in.ContactEmail,
			Industry:      in.Industry,
			Location:      in.Location,
			WebLink:       in.WebLink,
			StockMarket:   in.StockMarket,
			FounderYear:   in.FounderYear,
			Valuation:     in.Valuation,
		}
		if err := r.Companies().Create(ctx, company); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("a company with this contact email already exists")
			}
			return err
		}

		role := strings.TrimSpace(in.OwnerRole)
		if role == "" {
			role = string(user.Role)
		}
		return r.Owners().Create(ctx, &entity.CompanyOwner{
			UserID:    user.ID,
			CompanyID: company.ID,
			Role:      role,
			Active:    true,
		})
	})
	if err != nil {
		return nil, err
	}
	metricCompaniesRegistered.Add(1)
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id string) (*entity.Company, error) {
	key := helpers.CompanyCacheKey(id)
	if s.Cache != nil {
		var cached entity.Company
		ok, err := helpers.RedisGetJSON(ctx, s.Cache, key, &cached)
		if err != nil {
			s.log().WithError(err).WithField("company_id", id).Warn("company cache read failed")
		}
		if ok {
			return &cached, nil
		}
	}

	company, err := s.Store.Repos().Companies().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "company not found")
	}
	if s.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, s.Cache, key, company, companyCacheTTL); err != nil {
			s.log().WithError(err).WithField("company_id", id).Warn("company cache write failed")
		}
	}
	return company, nil
}

// CompanyQuery carries the raw filter parameters of the listing endpoint.
type CompanyQuery struct {
	Name         string
	Industry     string
	Location     string
	StockMarket  *bool
	FoundedMin   *int
	FoundedMax   *int
	ValuationMin *decimal.Decimal
	ValuationMax *decimal.Decimal
	SortBy       string
	Order        string
	Page         int
	Limit        int
}

type CompanyPage struct {
	Companies  []entity.Company
	Page       int
	TotalPages int
	Total      int
}

func (s *CompanyService) Filter(ctx context.Context, q CompanyQuery) (*CompanyPage, error) {
	sortBy := strings.ToLower(strings.TrimSpace(q.SortBy))
	if sortBy != "" && !slices.Contains(entity.CompanySortFields, sortBy) {
		return nil, apperror.Validation("sort_by must be one of " + strings.Join(entity.CompanySortFields, ", "))
	}
	var desc bool
	switch strings.ToLower(strings.TrimSpace(q.Order)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, apperror.Validation("order must be asc or desc")
	}
	if q.FoundedMin != nil && q.FoundedMax != nil && *q.FoundedMin > *q.FoundedMax {
		return nil, apperror.Validation("founded_min cannot be greater than founded_max")
	}
	if q.ValuationMin != nil && q.ValuationMax != nil && q.ValuationMin.GreaterThan(*q.ValuationMax) {
		return nil, apperror.Validation("valuation_min cannot be greater than valuation_max")
	}

	page, limit, offset := helpers.Paginate(q.Page, q.Limit)
	companies, total, err := s.Store.Repos().Companies().Filter(ctx, entity.CompanyFilter{
		Name:         strings.TrimSpace(q.Name),
		Industry:     strings.TrimSpace(q.Industry),
		Location:     strings.TrimSpace(q.Location),
		StockMarket:  q.StockMarket,
		FoundedMin:   q.FoundedMin,
		FoundedMax:   q.FoundedMax,
		ValuationMin: q.ValuationMin,
		ValuationMax: q.ValuationMax,
		SortBy:       sortBy,
		Desc:         desc,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []entity.Company{}
	}
	return &CompanyPage{
		Companies:  companies,
		Page:       page,
		TotalPages: helpers.TotalPages(total, limit),
		Total:      total,
	}, nil
}

// UploadCompanyAvatar replaces the company picture. Active owners only.
func (s *CompanyService) UploadCompanyAvatar(ctx context.Context, callerID, companyID, filename, contentType string, file io.Reader) (string, error) {
	r := s.Store.Repos()
	if _, err := r.Companies().GetByID(ctx, companyID); err != nil {
		return "", notFound(err, "company not found")
	}
	if err := requireActiveOwner(ctx, r, callerID, companyID, "only active owners can change the company avatar"); err != nil {
		return "", err
	}

	url, err := s.upload(ctx, "company-avatars", companyID, filename, contentType, file)
	if err != nil {
		return "", err
	}
	if err := r.Companies().UpdateAvatar(ctx, companyID, url); err != nil {
		return "", notFound(err, "company not found")
	}
	s.invalidateCompany(ctx, companyID)
	return url, nil
}
