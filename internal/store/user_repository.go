/**
 * @description
 * This file implements user persistence: registration inserts, lookups, and
 * the email-verified flag flip.
 */
package store

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

// CreateUser inserts a new user record into the database.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, username, first_name, surname, transfer_pin_hash, email_verified, verification_code, verification_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.FirstName,
		user.Surname,
		user.TransferPINHash,
		user.EmailVerified,
		user.VerificationCode,
		user.VerificationExpiresAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			log.Printf("level=warn component=store msg=\"user insert hit unique constraint\" constraint=%s", constraint)
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindUserByID retrieves a user by their internal id.
func (r *PostgresRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.findUser(ctx, "id = $1", userID)
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, "lower(email) = lower($1)", email)
}

func (r *PostgresRepository) findUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, email, username, first_name, surname, transfer_pin_hash, email_verified, created_at, updated_at
		FROM users
		WHERE ` + where
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.Surname,
		&user.TransferPINHash,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ConsumeVerificationCode flips the email_verified flag when the supplied code
// matches the one issued at registration and has not expired. The code is
// cleared in the same statement so it cannot be replayed.
func (r *PostgresRepository) ConsumeVerificationCode(ctx context.Context, userID uuid.UUID, code string) error {
	query := `
		UPDATE users
		SET email_verified = true, verification_code = NULL, verification_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND verification_code = $2 AND verification_expires_at > NOW()
	`
	result, err := r.db.Exec(ctx, query, userID, code)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		if _, err := r.FindUserByID(ctx, userID); err != nil {
			return err
		}
		return ErrInvalidVerificationCode
	}
	return nil
}
