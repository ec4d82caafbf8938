package postgres

import (
	"context"
	"errors"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

type OwnerRepository struct {
	q querier
}

func (r *OwnerRepository) Create(ctx context.Context, o *entity.CompanyOwner) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO company_owners (user_id, company_id, role, active)
		VALUES ($1, $2, $3, $4)
		RETURNING rel_id::text, created_at
	`, o.UserID, o.CompanyID, o.Role, o.Active)

	return mapError(row.Scan(&o.RelID, &o.CreatedAt))
}

func (r *OwnerRepository) get(ctx context.Context, where string, args ...any) (*entity.CompanyOwner, error) {
	o := &entity.CompanyOwner{}
	err := r.q.QueryRow(ctx, `
		SELECT rel_id::text, user_id::text, company_id::text, role, active, created_at
		FROM company_owners WHERE `+where, args...).
		Scan(&o.RelID, &o.UserID, &o.CompanyID, &o.Role, &o.Active, &o.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func (r *OwnerRepository) GetByRelID(ctx context.Context, relID string) (*entity.CompanyOwner, error) {
	return r.get(ctx, `rel_id = $1`, relID)
}

func (r *OwnerRepository) GetByUserAndCompany(ctx context.Context, userID, companyID string) (*entity.CompanyOwner, error) {
	return r.get(ctx, `user_id = $1 AND company_id = $2`, userID, companyID)
}

func (r *OwnerRepository) Activate(ctx context.Context, relID string) error {
	res, err := r.q.Exec(ctx, `UPDATE company_owners SET active = TRUE WHERE rel_id = $1 AND active = FALSE`, relID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OwnerRepository) Delete(ctx context.Context, relID string) error {
	res, err := r.q.Exec(ctx, `DELETE FROM company_owners WHERE rel_id = $1`, relID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OwnerRepository) IsActiveOwner(ctx context.Context, userID, companyID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM company_owners
			WHERE user_id = $1 AND company_id = $2 AND active
		)
	`, userID, companyID).Scan(&ok)
	if err != nil {
		// a malformed id cannot own anything
		if errors.Is(mapError(err), repository.ErrNotFound) {
			return false, nil
		}
		return false, mapError(err)
	}
	return ok, nil
}

func (r *OwnerRepository) ListActiveOwners(ctx context.Context, companyID string) ([]entity.OwnerView, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.rel_id::text, u.id::text, u.first_name, u.last_name, u.avatar_url, o.role
		FROM company_owners o
		JOIN users u ON u.id = o.user_id
		WHERE o.company_id = $1 AND o.active
		ORDER BY o.created_at, o.rel_id
	`, companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.OwnerView
	for rows.Next() {
		var v entity.OwnerView
		if err := rows.Scan(&v.RelID, &v.UserID, &v.FirstName, &v.LastName, &v.AvatarURL, &v.Role); err != nil {
			return nil, mapError(err)
		}
		out = append(out, v)
	}
	return out, mapError(rows.Err())
}

func (r *OwnerRepository) ListPendingForUser(ctx context.Context, userID string) ([]entity.PendingInvitation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.rel_id::text, o.role, o.created_at,
			c.id::text, c.name, c.contact_email, c.industry, c.avatar_url, c.founder_year, c.valuation
		FROM company_owners o
		JOIN companies c ON c.id = o.company_id
		WHERE o.user_id = $1 AND NOT o.active
		ORDER BY o.created_at DESC, o.rel_id DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.PendingInvitation
	for rows.Next() {
		var p entity.PendingInvitation
		c := &p.Company
		if err := rows.Scan(&p.RelID, &p.Role, &p.CreatedAt,
			&c.ID, &c.Name, &c.ContactEmail, &c.Industry, &c.AvatarURL, &c.FounderYear, &c.Valuation); err != nil {
			return nil, mapError(err)
		}
		out = append(out, p)
	}
	return out, mapError(rows.Err())
}

var _ repository.OwnerRepository = (*OwnerRepository)(nil)
