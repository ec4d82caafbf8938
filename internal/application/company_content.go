package application

import (
	"context"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
)

// ContentService manages the documents and yearly growth rates published on a
// company profile. Owners write; owners and subscribers read.
type ContentService struct {
	*Core
}

func NewContentService(core *Core) *ContentService {
	return &ContentService{Core: core}
}

type DocumentInput struct {
	CompanyID   string
	Title       string
	Description string
	DocURL      string
}

type GrowthRateInput struct {
	Year   int
	Profit decimal.Decimal
}

const (
	minRateYear = 1800
	maxRateYear = 2100
)

// AddDocument attaches a document that is already hosted at DocURL.
func (s *ContentService) AddDocument(ctx context.Context, callerID string, in DocumentInput) (*entity.CompanyDocument, error) {
	if strings.TrimSpace(in.DocURL) == "" {
		return nil, apperror.Validation("doc_url is required")
	}
	if err := s.checkDocument(ctx, callerID, in); err != nil {
		return nil, err
	}
	return s.createDocument(ctx, in)
}

// UploadDocument stores the file in object storage, then attaches it.
func (s *ContentService) UploadDocument(ctx context.Context, callerID string, in DocumentInput, filename, contentType string, file io.Reader) (*entity.CompanyDocument, error) {
	if err := s.checkDocument(ctx, callerID, in); err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, "company-docs", in.CompanyID, filename, contentType, file)
	if err != nil {
		return nil, err
	}
	in.DocURL = url
	return s.createDocument(ctx, in)
}

func (s *ContentService) checkDocument(ctx context.Context, callerID string, in DocumentInput) error {
	if strings.TrimSpace(in.CompanyID) == "" || strings.TrimSpace(in.Title) == "" {
		return apperror.Validation("company_id and title are required")
	}
	r := s.Store.Repos()
	if _, err := r.Companies().GetByID(ctx, in.CompanyID); err != nil {
		return notFound(err, "company not found")
	}
	return requireActiveOwner(ctx, r, callerID, in.CompanyID, "only active owners can add documents")
}

func (s *ContentService) createDocument(ctx context.Context, in DocumentInput) (*entity.CompanyDocument, error) {
	doc := &entity.CompanyDocument{
		CompanyID:   in.CompanyID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DocURL:      in.DocURL,
	}
	if err := s.Store.Repos().Documents().Create(ctx, doc); err != nil {
		return nil, notFound(err, "company not found")
	}
	return doc, nil
}

func (s *ContentService) DeleteDocument(ctx context.Context, callerID, docID string) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		doc, err := r.Documents().GetByID(ctx, docID)
		if err != nil {
			return notFound(err, "document not found")
		}
		if err := requireActiveOwner(ctx, r, callerID, doc.CompanyID, "only active owners can delete documents"); err != nil {
			return err
		}
		return notFound(r.Documents().Delete(ctx, docID), "document not found")
	})
}

func (s *ContentService) ListDocuments(ctx context.Context, callerID, companyID string) ([]entity.CompanyDocument, error) {
	r := s.Store.Repos()
	if err := s.requireReader(ctx, r, callerID, companyID); err != nil {
		return nil, err
	}
	docs, err := r.Documents().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []entity.CompanyDocument{}
	}
	return docs, nil
}

// SaveGrowthRates upserts one rate per year for the company.
func (s *ContentService) SaveGrowthRates(ctx context.Context, callerID, companyID string, rates []GrowthRateInput) ([]entity.GrowthRate, error) {
	if len(rates) == 0 {
		return nil, apperror.Validation("at least one growth rate is required")
	}
	for _, rt := range rates {
		if rt.Year < minRateYear || rt.Year > maxRateYear {
			return nil, apperror.Validation("year must be between 1800 and 2100")
		}
		if !entity.FitsMoney(rt.Profit) {
			return nil, apperror.Validation("profit must have at most 2 decimal places and 18 integer digits")
		}
	}

	var saved []entity.GrowthRate
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if _, err := r.Companies().GetByID(ctx, companyID); err != nil {
			return notFound(err, "company not found")
		}
		if err := requireActiveOwner(ctx, r, callerID, companyID, "only active owners can update growth rates"); err != nil {
			return err
		}
		for _, rt := range rates {
			if err := r.GrowthRates().Upsert(ctx, &entity.GrowthRate{CompanyID: companyID, Year: rt.Year, Profit: rt.Profit}); err != nil {
				return err
			}
		}
		var err error
		saved, err = r.GrowthRates().ListByCompany(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListGrowthRates returns rates in ascending year order.
func (s *ContentService) ListGrowthRates(ctx context.Context, callerID, companyID string) ([]entity.GrowthRate, error) {
	r := s.Store.Repos()
	if err := s.requireReader(ctx, r, callerID, companyID); err != nil {
		return nil, err
	}
	rates, err := r.GrowthRates().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []entity.GrowthRate{}
	}
	return rates, nil
}

// requireReader admits active owners of the company and entitled principals:
// a subscribed user, or a user owning a subscribed company.
func (s *ContentService) requireReader(ctx context.Context, r repository.Repos, callerID, companyID string) error {
	if _, err := r.Companies().GetByID(ctx, companyID); err != nil {
		return notFound(err, "company not found")
	}
	owner, err := r.Owners().IsActiveOwner(ctx, callerID, companyID)
	if err != nil || owner {
		return err
	}

	user, err := r.Users().GetByID(ctx, callerID)
	if err != nil {
		return notFound(err, "user not found")
	}
	now := s.now()
	if user.Entitled(now) {
		return nil
	}
	owned, err := r.Companies().ListByActiveOwner(ctx, callerID)
	if err != nil {
		return err
	}
	for i := range owned {
		if owned[i].Entitled(now) {
			return nil
		}
	}
	return apperror.Forbidden("an active subscription is required to view this content")
}
