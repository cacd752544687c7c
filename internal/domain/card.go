/**
 * @description
 * This file defines the Card model, a leaf payment instrument. Cards carry no
 * balance of their own: they reference a required bank account and optionally
 * a wallet, counting against the wallet's card capacity when linked.
 */
package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// CardNetwork enumerates the supported card networks.
type CardNetwork string

const (
	NetworkVisa       CardNetwork = "V"
	NetworkMasterCard CardNetwork = "M"
	NetworkDiscover   CardNetwork = "D"
)

// CardType distinguishes credit from debit cards.
type CardType string

const (
	CardCredit CardType = "C"
	CardDebit  CardType = "D"
)

// ExpiryMonth is a three-letter month abbreviation (JAN through DEC).
type ExpiryMonth string

var expiryMonths = map[ExpiryMonth]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March, "APR": time.April,
	"MAY": time.May, "JUN": time.June, "JUL": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// Card is a payment instrument attached to a bank account and optionally a wallet.
type Card struct {
	ID            uuid.UUID   `json:"id"`
	CardID        string      `json:"card_id"`
	CardName      string      `json:"card_name"`
	CardNumber    string      `json:"card_number"`
	CVC           string      `json:"-"`
	ExpiryMonth   ExpiryMonth `json:"expiry_month"`
	ExpiryYear    int         `json:"expiry_year"`
	Network       CardNetwork `json:"card_options"`
	Type          CardType    `json:"card_type"`
	BankAccountID uuid.UUID   `json:"bank_account_id"`
	WalletID      *uuid.UUID  `json:"wallet_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// AttachCardRequest is the payload accepted when a user adds a card.
// AttachToWallet controls whether the card also occupies a wallet slot.
type AttachCardRequest struct {
	CardName       string      `json:"card_name"`
	CardNumber     string      `json:"card_number"`
	CVC            string      `json:"cvc"`
	ExpiryMonth    ExpiryMonth `json:"expiry_month"`
	ExpiryYear     int         `json:"expiry_year"`
	Network        CardNetwork `json:"card_options"`
	Type           CardType    `json:"card_type"`
	AttachToWallet bool        `json:"attach_to_wallet"`
}

const (
	maxCardNameLength   = 20
	maxCardNumberLength = 20
	maxCVCLength        = 3
)

// Validate checks the hard field constraints on a card request. Violations are
// field-level errors, not storage failures. Lengths count runes so multi-byte
// names are not penalised. A card stays valid through the end of its expiry
// month.
func (r AttachCardRequest) Validate(now time.Time) error {
	if r.CardName == "" || utf8.RuneCountInString(r.CardName) > maxCardNameLength {
		return &FieldValidationError{Field: "card_name", Reason: fmt.Sprintf("must be 1-%d characters", maxCardNameLength)}
	}
	if r.CardNumber == "" || utf8.RuneCountInString(r.CardNumber) > maxCardNumberLength {
		return &FieldValidationError{Field: "card_number", Reason: fmt.Sprintf("must be 1-%d characters", maxCardNumberLength)}
	}
	if r.CVC == "" || utf8.RuneCountInString(r.CVC) > maxCVCLength {
		return &FieldValidationError{Field: "cvc", Reason: fmt.Sprintf("must be 1-%d characters", maxCVCLength)}
	}
	month, ok := expiryMonths[r.ExpiryMonth]
	if !ok {
		return &FieldValidationError{Field: "expiry_month", Reason: "unknown choice"}
	}
	if r.ExpiryYear < now.Year() || (r.ExpiryYear == now.Year() && month < now.Month()) {
		return &FieldValidationError{Field: "expiry_year", Reason: "card has expired"}
	}
	switch r.Network {
	case NetworkVisa, NetworkMasterCard, NetworkDiscover:
	default:
		return &FieldValidationError{Field: "card_options", Reason: "unknown choice"}
	}
	switch r.Type {
	case CardCredit, CardDebit:
	default:
		return &FieldValidationError{Field: "card_type", Reason: "unknown choice"}
	}
	return nil
}
