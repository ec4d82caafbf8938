package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type DocumentRepository struct {
	q querier
}

func (r *DocumentRepository) Create(ctx context.Context, d *entity.CompanyDocument) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO company_docs (company_id, title, description, doc_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at
	`, d.CompanyID, d.Title, d.Description, d.DocURL)

	return mapError(row.Scan(&d.ID, &d.CreatedAt))
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*entity.CompanyDocument, error) {
	d := &entity.CompanyDocument{}
	err := r.q.QueryRow(ctx, `
		SELECT id::text, company_id::text, title, description, doc_url, created_at
		FROM company_docs WHERE id = $1
	`, id).Scan(&d.ID, &d.CompanyID, &d.Title, &d.Description, &d.DocURL, &d.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.Exec(ctx, `DELETE FROM company_docs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.CompanyDocument, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, company_id::text, title, description, doc_url, created_at
		FROM company_docs
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC
	`, companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.CompanyDocument
	for rows.Next() {
		var d entity.CompanyDocument
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Title, &d.Description, &d.DocURL, &d.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		out = append(out, d)
	}
	return out, mapError(rows.Err())
}

type GrowthRateRepository struct {
	q querier
}

func (r *GrowthRateRepository) Upsert(ctx context.Context, g *entity.GrowthRate) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO company_growth_rates (company_id, year, profit)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, year) DO UPDATE SET profit = EXCLUDED.profit
		RETURNING id::text
	`, g.CompanyID, g.Year, g.Profit)

	return mapError(row.Scan(&g.ID))
}

func (r *GrowthRateRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.GrowthRate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, company_id::text, year, profit
		FROM company_growth_rates
		WHERE company_id = $1
		ORDER BY year
	`, companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.GrowthRate
	for rows.Next() {
		var g entity.GrowthRate
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Year, &g.Profit); err != nil {
			return nil, mapError(err)
		}
		out = append(out, g)
	}
	return out, mapError(rows.Err())
}

type PaymentRepository struct {
	q querier
}

// Record inserts with ON CONFLICT DO NOTHING so a replayed event id reports
// ErrDuplicate without aborting the surrounding transaction.
func (r *PaymentRepository) Record(ctx context.Context, ev *entity.PaymentEvent) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO payment_events (event_id, subject_type, subject_id, amount_paid, duration_months,
			period_start, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING processed_at
	`, ev.EventID, string(ev.SubjectType), ev.SubjectID, ev.AmountPaid, ev.DurationMonths,
		ev.PeriodStart, ev.PeriodEnd)

	if err := row.Scan(&ev.ProcessedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrDuplicate
		}
		return mapError(err)
	}
	return nil
}

func (r *PaymentRepository) Get(ctx context.Context, eventID string) (*entity.PaymentEvent, error) {
	ev := &entity.PaymentEvent{}
	var subject string
	err := r.q.QueryRow(ctx, `
		SELECT event_id, subject_type, subject_id::text, amount_paid, duration_months,
			period_start, period_end, processed_at
		FROM payment_events WHERE event_id = $1
	`, eventID).Scan(&ev.EventID, &subject, &ev.SubjectID, &ev.AmountPaid, &ev.DurationMonths,
		&ev.PeriodStart, &ev.PeriodEnd, &ev.ProcessedAt)
	if err != nil {
		return nil, mapError(err)
	}
	ev.SubjectType = entity.SubjectType(subject)
	return ev, nil
}

var (
	_ repository.DocumentRepository   = (*DocumentRepository)(nil)
	_ repository.GrowthRateRepository = (*GrowthRateRepository)(nil)
	_ repository.PaymentRepository    = (*PaymentRepository)(nil)
)
