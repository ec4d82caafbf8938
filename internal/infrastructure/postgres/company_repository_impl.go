package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

const companyColumns = `c.id::text, c.name, c.description, c.contact_number, c.contact_email, c.industry,
	c.location, c.web_link, c.avatar_url, c.stock_market, c.founder_year, c.valuation, c.paid,
	c.subscription_start, c.subscription_end, c.created_at, c.updated_at`

// sortColumns whitelists ORDER BY targets for Filter.
var sortColumns = map[string]string{
	"name":         "c.name",
	"industry":     "c.industry",
	"location":     "c.location",
	"founder_year": "c.founder_year",
	"valuation":    "c.valuation",
}

type CompanyRepository struct {
	q querier
}

func scanCompany(row interface{ Scan(dest ...any) error }) (*entity.Company, error) {
	c := &entity.Company{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ContactNumber, &c.ContactEmail, &c.Industry,
		&c.Location, &c.WebLink, &c.AvatarURL, &c.StockMarket, &c.FounderYear, &c.Valuation, &c.Paid,
		&c.SubscriptionStart, &c.SubscriptionEnd, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func collectCompanies(rows pgx.Rows) ([]entity.Company, error) {
	defer rows.Close()
	var out []entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, mapError(rows.Err())
}

func (r *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO companies (name, description, contact_number, contact_email, industry, location,
			web_link, avatar_url, stock_market, founder_year, valuation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id::text, created_at, updated_at
	`, c.Name, c.Description, c.ContactNumber, c.ContactEmail, c.Industry, c.Location,
		c.WebLink, c.AvatarURL, c.StockMarket, c.FounderYear, c.Valuation)

	return mapError(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = $1`, id))
}

func (r *CompanyRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.q.Exec(ctx, `UPDATE companies SET avatar_url = $1, updated_at = now() WHERE id = $2`, avatarURL, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) UpdateSubscription(ctx context.Context, id string, start, end time.Time) error {
	res, err := r.q.Exec(ctx, `
		UPDATE companies
		SET paid = TRUE, subscription_start = $1, subscription_end = $2, updated_at = now()
		WHERE id = $3
	`, start, end, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Filter(ctx context.Context, f entity.CompanyFilter) ([]entity.Company, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add("c.name ILIKE '%%' || $%d || '%%'", f.Name)
	}
	if f.Industry != "" {
		add("c.industry ILIKE '%%' || $%d || '%%'", f.Industry)
	}
	if f.Location != "" {
		add("c.location ILIKE '%%' || $%d || '%%'", f.Location)
	}
	if f.StockMarket != nil {
		add("c.stock_market = $%d", *f.StockMarket)
	}
	if f.FoundedMin != nil {
		add("c.founder_year >= $%d", *f.FoundedMin)
	}
	if f.FoundedMax != nil {
		add("c.founder_year <= $%d", *f.FoundedMax)
	}
	if f.ValuationMin != nil {
		add("c.valuation >= $%d", *f.ValuationMin)
	}
	if f.ValuationMax != nil {
		add("c.valuation <= $%d", *f.ValuationMax)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM companies c`+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "c.created_at"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM companies c%s ORDER BY %s %s, c.id %s LIMIT $%d OFFSET $%d`,
		companyColumns, cond, col, dir, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	out, err := collectCompanies(rows)
	return out, total, err
}

func (r *CompanyRepository) ListByActiveOwner(ctx context.Context, userID string) ([]entity.Company, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies c
		JOIN company_owners o ON o.company_id = c.id
		WHERE o.user_id = $1 AND o.active
		ORDER BY o.created_at
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return collectCompanies(rows)
}

var _ repository.CompanyRepository = (*CompanyRepository)(nil)
