/**
 * @description
 * This file defines the business error values shared across the domain. All of
 * these are expected conditions that handlers translate into user-facing
 * responses; none of them is fatal to the process.
 */
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount            = errors.New("amount must be a positive value")
	ErrBankInsufficientFunds    = errors.New("the bank account has insufficient funds")
	ErrWalletInsufficientFunds  = errors.New("the wallet has insufficient funds")
	ErrBankNotConnectedToWallet = errors.New("the wallet is not connected to a bank account")
	ErrWalletCardLimitExceeded  = errors.New("the wallet has reached its maximum number of cards")
	ErrCardTransferUnsupported  = errors.New("card transfers are not supported")
)

// InsufficientFundsError reports a rejected deduction together with the balance
// context: the current amount, the requested amount, and the overdrawn delta
// (current - requested, always negative). It wraps the per-entity sentinel so
// callers can match with errors.Is(err, ErrBankInsufficientFunds) and friends.
type InsufficientFundsError struct {
	Kind      error
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: current amount %s, withdrawal amount %s, overdrawn %s",
		e.Kind.Error(), e.Current.StringFixed(2), e.Requested.StringFixed(2), e.Overdrawn().StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return e.Kind }

// Overdrawn returns current - requested, the negative delta the deduction
// would have produced.
func (e *InsufficientFundsError) Overdrawn() decimal.Decimal {
	return e.Current.Sub(e.Requested)
}

// FieldValidationError reports a per-field constraint violation (length or
// choice). It is raised at the validation layer, before anything is persisted.
type FieldValidationError struct {
	Field  string
	Reason string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsFieldValidationError reports whether err is (or wraps) a field-level
// validation failure.
func IsFieldValidationError(err error) bool {
	var fieldErr *FieldValidationError
	return errors.As(err, &fieldErr)
}
