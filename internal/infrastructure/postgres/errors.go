package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

// mapError maps pgx and PostgreSQL errors onto repository sentinels.
// Anything unrecognised is returned wrapped with its SQLSTATE.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.Detail)
	case pgerrcode.InvalidTextRepresentation:
		// malformed uuid in a lookup
		return repository.ErrNotFound
	case pgerrcode.CheckViolation:
		return fmt.Errorf("check constraint violation: %s: %w", pgErr.ConstraintName, err)
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)
	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)
	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
