/**
 * @description
 * This file defines the transfer audit record and the request DTOs for the
 * money-movement endpoints. A Transfer row is written only after both sides of
 * a movement have committed; it is history, not state the core depends on.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferType names the direction of a completed transfer.
type TransferType string

const (
	TransferWalletToBank TransferType = "wallet_to_bank"
	TransferBankToWallet TransferType = "bank_to_wallet"
)

// Transfer is the audit record of one completed movement.
type Transfer struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Type          TransferType    `json:"type"`
	BankAccountID uuid.UUID       `json:"bank_account_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransferRequest is the payload for wallet<->bank transfer endpoints.
type TransferRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PIN    string          `json:"pin"`
}

// CardTransferRequest is the payload for the card transfer endpoints. The
// movement rules for these are an unresolved extension point; requests are
// validated and then rejected as unsupported.
type CardTransferRequest struct {
	SourceCardID uuid.UUID       `json:"source_card_id"`
	TargetCardID *uuid.UUID      `json:"target_card_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	PIN          string          `json:"pin"`
}

// TransferResult reports both post-transfer balances to the caller.
type TransferResult struct {
	Transfer     Transfer        `json:"transfer"`
	BankAmount   decimal.Decimal `json:"bank_amount"`
	WalletAmount decimal.Decimal `json:"wallet_amount"`
}
