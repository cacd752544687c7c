/**
 * @description
 * This file provides the PostgreSQL implementation of the Repository interface
 * and the shared helpers used by the per-entity repository files. All SQL for
 * the service lives in this package; the schema is in schema.sql at the
 * repository root.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver and transaction support.
 * - github.com/jackc/pgx/v5/pgconn: To detect unique-constraint violations.
 */
package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique-constraint violations.
const pgUniqueViolation = "23505"

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// uniqueViolation returns the violated constraint name and true when err is a
// unique-constraint violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// identityConflictError classifies a unique violation raised during entity
// creation: a collision on a user-scoped constraint means the caller already
// has the record, anything else is a generated-identity collision the caller
// may retry with fresh identity values.
func identityConflictError(constraint string, userScoped error) error {
	if strings.Contains(constraint, "user_id") {
		return userScoped
	}
	return ErrIdentityConflict
}
