/**
 * @description
 * This file defines the Balance value object, the shared add/deduct primitive
 * behind every balance-holding entity. BankAccount and Wallet each embed a
 * Balance and delegate to it, supplying their own insufficient-funds sentinel,
 * so the overdraft rules live in exactly one place.
 *
 * @notes
 * - Balance never mutates in place on failure: Deduct returns the unchanged
 *   receiver alongside the error, so a rejected operation leaves no trace.
 * - Amounts are decimal.Decimal with two fractional digits of interest;
 *   decimals avoid the float inaccuracies that plague monetary arithmetic.
 */
package domain

import "github.com/shopspring/decimal"

// Balance holds a non-negative monetary amount.
type Balance struct {
	amount decimal.Decimal
}

// NewBalance creates a Balance at the given amount. Negative starting amounts
// are clamped to zero; a stored balance can never be negative.
func NewBalance(amount decimal.Decimal) Balance {
	if amount.IsNegative() {
		return Balance{amount: decimal.Zero}
	}
	return Balance{amount: amount}
}

// Amount returns the current value.
func (b Balance) Amount() decimal.Decimal { return b.amount }

// Add returns the balance increased by amount. Negative amounts are rejected;
// adding zero is a no-op. There is no upper bound.
func (b Balance) Add(amount decimal.Decimal) (Balance, error) {
	if amount.IsNegative() {
		return b, ErrInvalidAmount
	}
	return Balance{amount: b.amount.Add(amount)}, nil
}

// Deduct returns the balance reduced by amount. Negative amounts are rejected
// and deducting zero is a no-op. A deduction exceeding the current amount
// fails with an InsufficientFundsError wrapping the supplied sentinel, and the
// receiver is returned unchanged.
func (b Balance) Deduct(amount decimal.Decimal, insufficient error) (Balance, error) {
	if amount.IsNegative() {
		return b, ErrInvalidAmount
	}
	if amount.GreaterThan(b.amount) {
		return b, &InsufficientFundsError{
			Kind:      insufficient,
			Current:   b.amount,
			Requested: amount,
		}
	}
	return Balance{amount: b.amount.Sub(amount)}, nil
}
