/**
 * @description
 * This file defines the repository interfaces for the service's data access
 * layer, along with the sentinel errors the implementations return. The
 * interfaces decouple the application service from PostgreSQL and are what the
 * app-layer tests stub out.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/google/uuid: For entity ids.
 * - github.com/shopspring/decimal: For monetary amounts.
 * - internal/domain: The entity models.
 */
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailTaken              = errors.New("a user with this email or username already exists")
	ErrInvalidVerificationCode = errors.New("verification code is invalid or expired")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileExists           = errors.New("a profile for this user already exists")
	ErrBankAccountNotFound     = errors.New("bank account not found")
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrCardNotFound            = errors.New("card not found")
	ErrIdentityConflict        = errors.New("generated identity value collided with an existing record")
)

// UserRepository stores registered users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ConsumeVerificationCode(ctx context.Context, userID uuid.UUID, code string) error
}

// ProfileRepository stores profiles and runs the provisioning transaction that
// creates the profile, bank account, and wallet as one atomic unit.
type ProfileRepository interface {
	CreateProfileWithAccounts(ctx context.Context, profile *domain.Profile, account *domain.BankAccount, wallet *domain.Wallet) error
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
}

// BankAccountRepository reads bank accounts. Balance mutation happens only
// through TransferRepository so that every movement is transactional.
type BankAccountRepository interface {
	FindBankAccountByNumber(ctx context.Context, sortCode, accountNumber string) (*domain.BankAccount, error)
	FindBankAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.BankAccount, error)
}

// WalletRepository reads wallets. Lookups join the owning user and linked bank
// account in a single round trip.
type WalletRepository interface {
	FindWalletByWalletID(ctx context.Context, walletID string) (*domain.Wallet, error)
	FindWalletByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	FindWalletsByBankAccountID(ctx context.Context, bankAccountID uuid.UUID) ([]domain.Wallet, error)
}

// CardRepository stores cards and enforces the wallet card-capacity limit
// inside the attachment transaction.
type CardRepository interface {
	AttachCard(ctx context.Context, card *domain.Card) error
	FindCardByID(ctx context.Context, cardID uuid.UUID, userID uuid.UUID) (*domain.Card, error)
	ListCardsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	RemoveCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) error
}

// TransferRepository executes the atomic two-entity movements. Each method runs
// a single database transaction: both rows are locked, the new balances are
// computed through the domain Balance primitive, and only the amount fields
// are written back.
type TransferRepository interface {
	TransferWalletToBank(ctx context.Context, userID uuid.UUID, walletID uuid.UUID, bankAccountID uuid.UUID, amount decimal.Decimal) (*domain.TransferResult, error)
	TransferBankToWallet(ctx context.Context, userID uuid.UUID, bankAccountID uuid.UUID, walletID uuid.UUID, amount decimal.Decimal) (*domain.TransferResult, error)
	ListTransfersByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Transfer, error)
}

// Repository aggregates every data access concern the application service needs.
type Repository interface {
	UserRepository
	ProfileRepository
	BankAccountRepository
	WalletRepository
	CardRepository
	TransferRepository
}
