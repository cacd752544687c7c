/**
 * @description
 * This file defines the Wallet model, the intermediate money store between a
 * bank account and payment cards. A wallet may be linked to at most one bank
 * account; transfers against the bank require that link. Card storage is
 * capped by MaximumCards.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaximumCards is the card capacity assigned to newly created wallets.
const DefaultMaximumCards = 3

// Wallet is the intermediate money store owned by exactly one user.
type Wallet struct {
	ID                 uuid.UUID       `json:"id"`
	WalletID           string          `json:"wallet_id"`
	Amount             decimal.Decimal `json:"amount"`
	LastAmountReceived decimal.Decimal `json:"last_amount_received"`
	TotalCards         int             `json:"total_cards"`
	MaximumCards       int             `json:"maximum_cards"`
	BankAccountID      *uuid.UUID      `json:"bank_account_id,omitempty"`
	UserID             uuid.UUID       `json:"user_id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsBankConnected reports whether the wallet is linked to a bank account.
// Wallet-to-bank transfers require this.
func (w *Wallet) IsBankConnected() bool {
	return w.BankAccountID != nil
}

// HasCardCapacity reports whether another card can be attached.
func (w *Wallet) HasCardCapacity() bool {
	return w.TotalCards < w.MaximumCards
}

// Add returns the wallet balance increased by amount.
func (w *Wallet) Add(amount decimal.Decimal) (decimal.Decimal, error) {
	next, err := NewBalance(w.Amount).Add(amount)
	if err != nil {
		return w.Amount, err
	}
	return next.Amount(), nil
}

// Deduct returns the wallet balance reduced by amount. A deduction beyond the
// current balance fails with ErrWalletInsufficientFunds, leaving the balance
// unchanged.
func (w *Wallet) Deduct(amount decimal.Decimal) (decimal.Decimal, error) {
	next, err := NewBalance(w.Amount).Deduct(amount, ErrWalletInsufficientFunds)
	if err != nil {
		return w.Amount, err
	}
	return next.Amount(), nil
}
