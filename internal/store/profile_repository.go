/**
 * @description
 * This file implements profile persistence, including the provisioning
 * transaction: a first-time profile insert creates the user's bank account and
 * wallet in the same database transaction, so a failure at any step leaves no
 * partial state behind.
 */
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

// CreateProfileWithAccounts inserts the profile, bank account and wallet as a
// single atomic unit. A duplicate profile for the user surfaces as
// ErrProfileExists; a collision on any generated identity value surfaces as
// ErrIdentityConflict so the caller can regenerate and retry.
func (r *PostgresRepository) CreateProfileWithAccounts(ctx context.Context, profile *domain.Profile, account *domain.BankAccount, wallet *domain.Wallet) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	profileQuery := `
		INSERT INTO profiles (
			id, profile_id, user_id, first_name, surname, email, mobile,
			country, state, postcode, gender, marital_status, identification_documents, signature
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, profileQuery,
		profile.ID,
		profile.ProfileID,
		profile.UserID,
		profile.FirstName,
		profile.Surname,
		profile.Email,
		profile.Mobile,
		profile.Country,
		profile.State,
		profile.Postcode,
		profile.Gender,
		profile.MaritalStatus,
		profile.Identification,
		profile.Signature,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return identityConflictError(constraint, ErrProfileExists)
		}
		return err
	}

	accountQuery := `
		INSERT INTO bank_accounts (id, bank_id, sort_code, account_number, amount, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, accountQuery,
		account.ID,
		account.BankID,
		account.SortCode,
		account.AccountNumber,
		account.Amount,
		account.UserID,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return identityConflictError(constraint, ErrProfileExists)
		}
		return err
	}

	walletQuery := `
		INSERT INTO wallets (id, wallet_id, amount, last_amount_received, total_cards, maximum_cards, bank_account_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, walletQuery,
		wallet.ID,
		wallet.WalletID,
		wallet.Amount,
		wallet.LastAmountReceived,
		wallet.TotalCards,
		wallet.MaximumCards,
		wallet.BankAccountID,
		wallet.UserID,
	).Scan(&wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return identityConflictError(constraint, ErrProfileExists)
		}
		return err
	}

	return tx.Commit(ctx)
}

// FindProfileByUserID retrieves a user's profile.
func (r *PostgresRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT id, profile_id, user_id, first_name, surname, email, mobile,
		       country, state, postcode, gender, marital_status, identification_documents, signature,
		       created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.ProfileID,
		&profile.UserID,
		&profile.FirstName,
		&profile.Surname,
		&profile.Email,
		&profile.Mobile,
		&profile.Country,
		&profile.State,
		&profile.Postcode,
		&profile.Gender,
		&profile.MaritalStatus,
		&profile.Identification,
		&profile.Signature,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile persists the mutable profile fields. Identity fields
// (profile_id, user_id) are never updated.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $1, surname = $2, mobile = $3, country = $4, state = $5,
		    postcode = $6, gender = $7, marital_status = $8,
		    identification_documents = $9, signature = $10, updated_at = NOW()
		WHERE user_id = $11
	`
	result, err := r.db.Exec(ctx, query,
		profile.FirstName,
		profile.Surname,
		profile.Mobile,
		profile.Country,
		profile.State,
		profile.Postcode,
		profile.Gender,
		profile.MaritalStatus,
		profile.Identification,
		profile.Signature,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
