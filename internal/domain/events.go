/**
 * @description
 * This file defines the event payloads published to RabbitMQ. Email delivery
 * and push notifications are handled by consumers outside this repository.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRegisteredEvent is published after a successful registration so the
// mailer can deliver the email verification code.
type UserRegisteredEvent struct {
	UserID           uuid.UUID `json:"user_id"`
	Email            string    `json:"email"`
	VerificationCode string    `json:"verification_code"`
	Timestamp        time.Time `json:"timestamp"`
}

// AccountCreatedEvent is published once a profile has been completed and the
// user's bank account and wallet have been provisioned.
type AccountCreatedEvent struct {
	UserID        uuid.UUID `json:"user_id"`
	BankAccountID uuid.UUID `json:"bank_account_id"`
	WalletID      uuid.UUID `json:"wallet_id"`
	SortCode      string    `json:"sort_code"`
	AccountNumber string    `json:"account_number"`
	Timestamp     time.Time `json:"timestamp"`
}

// TransferCompletedEvent is published after both sides of a transfer commit.
type TransferCompletedEvent struct {
	TransferID uuid.UUID       `json:"transfer_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Type       TransferType    `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}
