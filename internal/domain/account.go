/**
 * @description
 * This file defines the BankAccount model, the root money store. A bank account
 * is identified externally by its sort code and account number pair and
 * internally by an opaque bank_id token. Its balance behavior delegates to the
 * shared Balance primitive.
 *
 * @notes
 * - Identity fields are generated, never caller-supplied, and immutable once
 *   assigned. Generation happens in the store before the first persist.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccount is the root money store owned by exactly one user.
type BankAccount struct {
	ID            uuid.UUID       `json:"id"`
	BankID        string          `json:"bank_id"`
	SortCode      string          `json:"sort_code"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	UserID        uuid.UUID       `json:"user_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FullAccountNumber returns the external address of the account: the sort code
// concatenated with the account number.
func (a *BankAccount) FullAccountNumber() string {
	return a.SortCode + a.AccountNumber
}

// Add returns the account balance increased by amount. There is no upper bound.
func (a *BankAccount) Add(amount decimal.Decimal) (decimal.Decimal, error) {
	next, err := NewBalance(a.Amount).Add(amount)
	if err != nil {
		return a.Amount, err
	}
	return next.Amount(), nil
}

// Deduct returns the account balance reduced by amount. An overdraft fails with
// ErrBankInsufficientFunds and reports the overdrawn delta; the balance is
// unchanged on failure.
func (a *BankAccount) Deduct(amount decimal.Decimal) (decimal.Decimal, error) {
	next, err := NewBalance(a.Amount).Deduct(amount, ErrBankInsufficientFunds)
	if err != nil {
		return a.Amount, err
	}
	return next.Amount(), nil
}
