package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

const dealColumns = `d.id::text, d.company_id::text, d.investor_id::text, d.amount, d.equity_percentage,
	d.status, d.created_at, d.updated_at`

type DealRepository struct {
	q querier
}

func scanDeal(row interface{ Scan(dest ...any) error }, extra ...any) (*entity.InvestmentDeal, error) {
	d := &entity.InvestmentDeal{}
	var (
		equity decimal.NullDecimal
		status string
	)
	dest := append([]any{&d.ID, &d.CompanyID, &d.InvestorID, &d.Amount, &equity, &status, &d.CreatedAt, &d.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapError(err)
	}
	if equity.Valid {
		d.EquityPercentage = &equity.Decimal
	}
	d.Status = entity.DealStatus(status)
	return d, nil
}

func (r *DealRepository) Create(ctx context.Context, d *entity.InvestmentDeal) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO investment_deals (company_id, investor_id, amount, equity_percentage, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at, updated_at
	`, d.CompanyID, d.InvestorID, d.Amount, nullDecimal(d.EquityPercentage), string(d.Status))

	return mapError(row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt))
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*entity.InvestmentDeal, error) {
	return scanDeal(r.q.QueryRow(ctx, `SELECT `+dealColumns+` FROM investment_deals d WHERE d.id = $1`, id))
}

// UpdateTerms and TransitionStatus put the Pending guard in the UPDATE predicate
// so concurrent writers serialize on the row lock and the loser matches nothing.
func (r *DealRepository) UpdateTerms(ctx context.Context, d *entity.InvestmentDeal) error {
	updated, err := scanDeal(r.q.QueryRow(ctx, `
		UPDATE investment_deals d
		SET amount = $1, equity_percentage = $2, updated_at = now()
		WHERE d.id = $3 AND d.status = 'Pending'
		RETURNING `+dealColumns,
		d.Amount, nullDecimal(d.EquityPercentage), d.ID))
	if err != nil {
		return r.guardFailure(ctx, d.ID, err)
	}
	*d = *updated
	return nil
}

func (r *DealRepository) TransitionStatus(ctx context.Context, id string, status entity.DealStatus) (*entity.InvestmentDeal, error) {
	d, err := scanDeal(r.q.QueryRow(ctx, `
		UPDATE investment_deals d
		SET status = $1, updated_at = now()
		WHERE d.id = $2 AND d.status = 'Pending'
		RETURNING `+dealColumns,
		string(status), id))
	if err != nil {
		return nil, r.guardFailure(ctx, id, err)
	}
	return d, nil
}

// guardFailure tells a missing deal apart from one that already left Pending.
func (r *DealRepository) guardFailure(ctx context.Context, id string, err error) error {
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	var exists bool
	if qerr := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM investment_deals WHERE id = $1)`, id).Scan(&exists); qerr != nil {
		return mapError(qerr)
	}
	if exists {
		return repository.ErrStateChanged
	}
	return repository.ErrNotFound
}

func (r *DealRepository) ListByInvestor(ctx context.Context, investorID string) ([]entity.DealWithCompany, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+dealColumns+`,
			c.id::text, c.name, c.contact_email, c.industry, c.avatar_url, c.founder_year, c.valuation
		FROM investment_deals d
		JOIN companies c ON c.id = d.company_id
		WHERE d.investor_id = $1
		ORDER BY d.created_at DESC, d.id DESC
	`, investorID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.DealWithCompany
	for rows.Next() {
		var c entity.CompanyCard
		d, err := scanDeal(rows, &c.ID, &c.Name, &c.ContactEmail, &c.Industry, &c.AvatarURL, &c.FounderYear, &c.Valuation)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.DealWithCompany{Deal: *d, Company: c})
	}
	return out, mapError(rows.Err())
}

func (r *DealRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.InvestmentDeal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+dealColumns+`
		FROM investment_deals d
		WHERE d.company_id = $1
		ORDER BY d.created_at DESC, d.id DESC
	`, companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.InvestmentDeal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, mapError(rows.Err())
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

var _ repository.DealRepository = (*DealRepository)(nil)
