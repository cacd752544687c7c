/**
 * @description
 * This file implements wallet lookups. Each retrieval is a single query; the
 * bank-account link travels with the wallet row so callers never need a second
 * round trip to decide whether the wallet is connected.
 */
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

const walletColumns = `id, wallet_id, amount, last_amount_received, total_cards, maximum_cards, bank_account_id, user_id, created_at, updated_at`

// FindWalletByWalletID retrieves a wallet by its external wallet_id token.
func (r *PostgresRepository) FindWalletByWalletID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1`
	return scanWallet(r.db.QueryRow(ctx, query, walletID))
}

// FindWalletByUserID retrieves the wallet owned by a user.
func (r *PostgresRepository) FindWalletByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return scanWallet(r.db.QueryRow(ctx, query, userID))
}

// FindWalletsByBankAccountID retrieves every wallet linked to a bank account.
func (r *PostgresRepository) FindWalletsByBankAccountID(ctx context.Context, bankAccountID uuid.UUID) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE bank_account_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *wallet)
	}
	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := row.Scan(
		&wallet.ID,
		&wallet.WalletID,
		&wallet.Amount,
		&wallet.LastAmountReceived,
		&wallet.TotalCards,
		&wallet.MaximumCards,
		&wallet.BankAccountID,
		&wallet.UserID,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}
