/**
 * @description
 * This file implements bank account lookups. Not-found is an expected result
 * reported with a sentinel error, never a crash; balance mutation goes through
 * the transfer repository only.
 */
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

const bankAccountColumns = `id, bank_id, sort_code, account_number, amount, user_id, created_at, updated_at`

// FindBankAccountByNumber retrieves the single account addressed by the
// (sort_code, account_number) pair.
func (r *PostgresRepository) FindBankAccountByNumber(ctx context.Context, sortCode, accountNumber string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE sort_code = $1 AND account_number = $2`
	return r.scanBankAccount(r.db.QueryRow(ctx, query, sortCode, accountNumber))
}

// FindBankAccountByUserID retrieves the account owned by a user.
func (r *PostgresRepository) FindBankAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE user_id = $1`
	return r.scanBankAccount(r.db.QueryRow(ctx, query, userID))
}

func (r *PostgresRepository) scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := row.Scan(
		&account.ID,
		&account.BankID,
		&account.SortCode,
		&account.AccountNumber,
		&account.Amount,
		&account.UserID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrBankAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
