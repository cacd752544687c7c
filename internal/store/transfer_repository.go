/**
 * @description
 * This file implements the atomic two-entity transfers. Each transfer runs in
 * exactly one database transaction: the bank account row is locked first, then
 * the wallet row (a fixed order, so concurrent opposite-direction transfers
 * cannot deadlock), the connection invariant is re-checked under the lock, the
 * new balances are computed through the domain Balance primitive, and only the
 * amount fields are written back. The audit row commits with the balances or
 * not at all.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: Transactions and FOR UPDATE row locks.
 * - github.com/shopspring/decimal: Monetary arithmetic.
 * - internal/domain: Balance rules and sentinel errors.
 */
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

// TransferWalletToBank deducts amount from the wallet and adds it to the bank
// account as one all-or-nothing unit. The wallet must be linked to the given
// bank account; a deduction beyond the wallet balance fails with
// domain.ErrWalletInsufficientFunds and neither balance changes.
func (r *PostgresRepository) TransferWalletToBank(ctx context.Context, userID uuid.UUID, walletID uuid.UUID, bankAccountID uuid.UUID, amount decimal.Decimal) (*domain.TransferResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bank, wallet, err := lockTransferPair(ctx, tx, bankAccountID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsBankConnected() || *wallet.BankAccountID != bank.ID {
		return nil, domain.ErrBankNotConnectedToWallet
	}

	newWalletAmount, err := wallet.Deduct(amount)
	if err != nil {
		return nil, err
	}
	newBankAmount, err := bank.Add(amount)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET amount = $1, updated_at = NOW() WHERE id = $2`,
		newWalletAmount, wallet.ID,
	); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET amount = $1, updated_at = NOW() WHERE id = $2`,
		newBankAmount, bank.ID,
	); err != nil {
		return nil, err
	}

	transfer, err := insertTransfer(ctx, tx, userID, domain.TransferWalletToBank, bank.ID, wallet.ID, amount)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Transfer:     *transfer,
		BankAmount:   newBankAmount,
		WalletAmount: newWalletAmount,
	}, nil
}

// TransferBankToWallet deducts amount from the bank account and adds it to the
// wallet as one all-or-nothing unit. The wallet's last_amount_received records
// the credited amount.
func (r *PostgresRepository) TransferBankToWallet(ctx context.Context, userID uuid.UUID, bankAccountID uuid.UUID, walletID uuid.UUID, amount decimal.Decimal) (*domain.TransferResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bank, wallet, err := lockTransferPair(ctx, tx, bankAccountID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsBankConnected() || *wallet.BankAccountID != bank.ID {
		return nil, domain.ErrBankNotConnectedToWallet
	}

	newBankAmount, err := bank.Deduct(amount)
	if err != nil {
		return nil, err
	}
	newWalletAmount, err := wallet.Add(amount)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET amount = $1, updated_at = NOW() WHERE id = $2`,
		newBankAmount, bank.ID,
	); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET amount = $1, last_amount_received = $2, updated_at = NOW() WHERE id = $3`,
		newWalletAmount, amount, wallet.ID,
	); err != nil {
		return nil, err
	}

	transfer, err := insertTransfer(ctx, tx, userID, domain.TransferBankToWallet, bank.ID, wallet.ID, amount)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Transfer:     *transfer,
		BankAmount:   newBankAmount,
		WalletAmount: newWalletAmount,
	}, nil
}

// ListTransfersByUserID retrieves a user's transfer history, newest first.
func (r *PostgresRepository) ListTransfersByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Transfer, error) {
	query := `
		SELECT id, user_id, type, bank_account_id, wallet_id, amount, created_at
		FROM transfers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var transfer domain.Transfer
		if err := rows.Scan(
			&transfer.ID,
			&transfer.UserID,
			&transfer.Type,
			&transfer.BankAccountID,
			&transfer.WalletID,
			&transfer.Amount,
			&transfer.CreatedAt,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}

// lockTransferPair locks the bank account row and then the wallet row for the
// duration of the enclosing transaction and returns both entities at their
// current balances.
func lockTransferPair(ctx context.Context, tx pgx.Tx, bankAccountID uuid.UUID, walletID uuid.UUID) (*domain.BankAccount, *domain.Wallet, error) {
	var bank domain.BankAccount
	err := tx.QueryRow(ctx,
		`SELECT id, bank_id, sort_code, account_number, amount, user_id FROM bank_accounts WHERE id = $1 FOR UPDATE`,
		bankAccountID,
	).Scan(&bank.ID, &bank.BankID, &bank.SortCode, &bank.AccountNumber, &bank.Amount, &bank.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrBankAccountNotFound
		}
		return nil, nil, err
	}

	var wallet domain.Wallet
	err = tx.QueryRow(ctx,
		`SELECT id, wallet_id, amount, last_amount_received, total_cards, maximum_cards, bank_account_id, user_id FROM wallets WHERE id = $1 FOR UPDATE`,
		walletID,
	).Scan(&wallet.ID, &wallet.WalletID, &wallet.Amount, &wallet.LastAmountReceived, &wallet.TotalCards, &wallet.MaximumCards, &wallet.BankAccountID, &wallet.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrWalletNotFound
		}
		return nil, nil, err
	}

	return &bank, &wallet, nil
}

func insertTransfer(ctx context.Context, tx pgx.Tx, userID uuid.UUID, transferType domain.TransferType, bankAccountID uuid.UUID, walletID uuid.UUID, amount decimal.Decimal) (*domain.Transfer, error) {
	transfer := &domain.Transfer{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          transferType,
		BankAccountID: bankAccountID,
		WalletID:      walletID,
		Amount:        amount,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO transfers (id, user_id, type, bank_account_id, wallet_id, amount, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		transfer.ID, transfer.UserID, transfer.Type, transfer.BankAccountID, transfer.WalletID, transfer.Amount, transfer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return transfer, nil
}
