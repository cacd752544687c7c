/**
 * @description
 * This file implements card persistence. Attaching a card to a wallet runs in
 * one transaction: the wallet row is locked, the capacity limit is checked,
 * and the card counter only moves when the insert succeeds. A rejected attach
 * leaves the wallet's total_cards untouched.
 */
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

// AttachCard inserts a card. When the card references a wallet, the wallet row
// is locked for the duration of the transaction and the attach fails with
// domain.ErrWalletCardLimitExceeded once the wallet is at capacity.
func (r *PostgresRepository) AttachCard(ctx context.Context, card *domain.Card) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if card.WalletID != nil {
		var totalCards, maximumCards int
		err = tx.QueryRow(ctx,
			`SELECT total_cards, maximum_cards FROM wallets WHERE id = $1 FOR UPDATE`,
			*card.WalletID,
		).Scan(&totalCards, &maximumCards)
		if err != nil {
			if err == pgx.ErrNoRows {
				return ErrWalletNotFound
			}
			return err
		}
		if totalCards >= maximumCards {
			return domain.ErrWalletCardLimitExceeded
		}
	}

	insertQuery := `
		INSERT INTO cards (id, card_id, card_name, card_number, cvc, expiry_month, expiry_year, card_options, card_type, bank_account_id, wallet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, insertQuery,
		card.ID,
		card.CardID,
		card.CardName,
		card.CardNumber,
		card.CVC,
		card.ExpiryMonth,
		card.ExpiryYear,
		card.Network,
		card.Type,
		card.BankAccountID,
		card.WalletID,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrIdentityConflict
		}
		return err
	}

	if card.WalletID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE wallets SET total_cards = total_cards + 1, updated_at = NOW() WHERE id = $1`,
			*card.WalletID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindCardByID retrieves a card owned by the given user. Ownership runs
// through the card's bank account.
func (r *PostgresRepository) FindCardByID(ctx context.Context, cardID uuid.UUID, userID uuid.UUID) (*domain.Card, error) {
	query := `
		SELECT c.id, c.card_id, c.card_name, c.card_number, c.cvc, c.expiry_month, c.expiry_year,
		       c.card_options, c.card_type, c.bank_account_id, c.wallet_id, c.created_at, c.updated_at
		FROM cards c
		JOIN bank_accounts b ON b.id = c.bank_account_id
		WHERE c.id = $1 AND b.user_id = $2
	`
	return scanCard(r.db.QueryRow(ctx, query, cardID, userID))
}

// ListCardsByUserID retrieves every card attached to the user's bank account.
func (r *PostgresRepository) ListCardsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	query := `
		SELECT c.id, c.card_id, c.card_name, c.card_number, c.cvc, c.expiry_month, c.expiry_year,
		       c.card_options, c.card_type, c.bank_account_id, c.wallet_id, c.created_at, c.updated_at
		FROM cards c
		JOIN bank_accounts b ON b.id = c.bank_account_id
		WHERE b.user_id = $1
		ORDER BY c.created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// RemoveCard deletes a user's card, releasing its wallet slot when one was
// occupied, in a single transaction.
func (r *PostgresRepository) RemoveCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var walletID *uuid.UUID
	deleteQuery := `
		DELETE FROM cards c
		USING bank_accounts b
		WHERE c.id = $1 AND c.bank_account_id = b.id AND b.user_id = $2
		RETURNING c.wallet_id
	`
	err = tx.QueryRow(ctx, deleteQuery, cardID, userID).Scan(&walletID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrCardNotFound
		}
		return err
	}

	if walletID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE wallets SET total_cards = GREATEST(total_cards - 1, 0), updated_at = NOW() WHERE id = $1`,
			*walletID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.ID,
		&card.CardID,
		&card.CardName,
		&card.CardNumber,
		&card.CVC,
		&card.ExpiryMonth,
		&card.ExpiryYear,
		&card.Network,
		&card.Type,
		&card.BankAccountID,
		&card.WalletID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}
