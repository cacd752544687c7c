/**
 * @description
 * This file contains the core business logic for money movement. The Service
 * struct orchestrates transfers between a user's bank account, wallet, and
 * cards: it validates participants and amounts, verifies the caller's transfer
 * PIN, and delegates the atomic balance pair to the repository. Validation and
 * insufficient-funds failures happen before any persistent mutation, so a
 * failed transfer can be retried and fails the same way with balances intact.
 *
 * @dependencies
 * - golang.org/x/crypto/bcrypt: Transfer PIN verification.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/rabbitmq: Event publication for the notification boundary.
 */
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/store"
	"github.com/EgbieAndersonUku1/VirtualBank/pkg/rabbitmq"
)

var (
	ErrInvalidTransferPIN          = errors.New("invalid transfer pin")
	ErrIdentityGenerationExhausted = errors.New("could not generate unique identity values")
)

// identityRetryLimit bounds how many times entity creation regenerates
// identity values after a storage-level uniqueness collision.
const identityRetryLimit = 3

// Service provides the application's business logic.
type Service struct {
	repo         store.Repository
	producer     rabbitmq.Publisher
	maximumCards int
}

// NewService creates a new Service instance. maximumCards is the card capacity
// assigned to newly provisioned wallets.
func NewService(repo store.Repository, producer rabbitmq.Publisher, maximumCards int) *Service {
	if maximumCards <= 0 {
		maximumCards = domain.DefaultMaximumCards
	}
	return &Service{
		repo:         repo,
		producer:     producer,
		maximumCards: maximumCards,
	}
}

// TransferWalletToBank moves amount from the user's wallet into its linked
// bank account. The wallet must be connected to a bank account; the deduction
// and the credit commit together or not at all.
func (s *Service) TransferWalletToBank(ctx context.Context, userID uuid.UUID, req domain.TransferRequest) (*domain.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := s.verifyTransferPIN(ctx, userID, req.PIN); err != nil {
		return nil, err
	}

	wallet, err := s.repo.FindWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsBankConnected() {
		return nil, domain.ErrBankNotConnectedToWallet
	}

	result, err := s.repo.TransferWalletToBank(ctx, userID, wallet.ID, *wallet.BankAccountID, req.Amount)
	if err != nil {
		return nil, err
	}

	s.publishTransferCompleted(ctx, result.Transfer)
	return result, nil
}

// TransferBankToWallet moves amount from the user's bank account into its
// connected wallet, symmetrically to TransferWalletToBank.
func (s *Service) TransferBankToWallet(ctx context.Context, userID uuid.UUID, req domain.TransferRequest) (*domain.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := s.verifyTransferPIN(ctx, userID, req.PIN); err != nil {
		return nil, err
	}

	wallet, err := s.repo.FindWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsBankConnected() {
		return nil, domain.ErrBankNotConnectedToWallet
	}

	result, err := s.repo.TransferBankToWallet(ctx, userID, *wallet.BankAccountID, wallet.ID, req.Amount)
	if err != nil {
		return nil, err
	}

	s.publishTransferCompleted(ctx, result.Transfer)
	return result, nil
}

// TransferCardToBank validates the participants of a card-to-bank movement.
// The settlement rule for card-funded transfers is an unresolved extension
// point (cards hold no balance), so after validation the operation reports
// itself unsupported without touching any state.
func (s *Service) TransferCardToBank(ctx context.Context, userID uuid.UUID, req domain.CardTransferRequest) error {
	if !req.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if err := s.verifyTransferPIN(ctx, userID, req.PIN); err != nil {
		return err
	}
	if _, err := s.repo.FindCardByID(ctx, req.SourceCardID, userID); err != nil {
		return err
	}
	if _, err := s.repo.FindBankAccountByUserID(ctx, userID); err != nil {
		return err
	}
	return domain.ErrCardTransferUnsupported
}

// TransferBetweenCards validates both cards of a card-to-card movement and
// then reports the operation unsupported, for the same reason as
// TransferCardToBank.
func (s *Service) TransferBetweenCards(ctx context.Context, userID uuid.UUID, req domain.CardTransferRequest) error {
	if !req.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if req.TargetCardID == nil {
		return &domain.FieldValidationError{Field: "target_card_id", Reason: "required"}
	}
	if err := s.verifyTransferPIN(ctx, userID, req.PIN); err != nil {
		return err
	}
	if _, err := s.repo.FindCardByID(ctx, req.SourceCardID, userID); err != nil {
		return err
	}
	if _, err := s.repo.FindCardByID(ctx, *req.TargetCardID, userID); err != nil {
		return err
	}
	return domain.ErrCardTransferUnsupported
}

// ListTransfers returns the user's transfer history, newest first.
func (s *Service) ListTransfers(ctx context.Context, userID uuid.UUID) ([]domain.Transfer, error) {
	return s.repo.ListTransfersByUserID(ctx, userID)
}

// GetBankAccountByNumber looks up an account by its external address.
func (s *Service) GetBankAccountByNumber(ctx context.Context, sortCode, accountNumber string) (*domain.BankAccount, error) {
	return s.repo.FindBankAccountByNumber(ctx, sortCode, accountNumber)
}

// GetBankAccount returns the user's bank account.
func (s *Service) GetBankAccount(ctx context.Context, userID uuid.UUID) (*domain.BankAccount, error) {
	return s.repo.FindBankAccountByUserID(ctx, userID)
}

// GetWallet returns the user's wallet.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	return s.repo.FindWalletByUserID(ctx, userID)
}

// GetWalletByWalletID looks up a wallet by its external wallet_id token.
func (s *Service) GetWalletByWalletID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	return s.repo.FindWalletByWalletID(ctx, walletID)
}

// GetWalletsByBankAccount returns every wallet linked to a bank account.
func (s *Service) GetWalletsByBankAccount(ctx context.Context, bankAccountID uuid.UUID) ([]domain.Wallet, error) {
	return s.repo.FindWalletsByBankAccountID(ctx, bankAccountID)
}

// verifyTransferPIN compares the supplied PIN against the user's stored
// bcrypt hash. It runs before any mutation on every money-movement path.
func (s *Service) verifyTransferPIN(ctx context.Context, userID uuid.UUID, pin string) error {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.TransferPINHash), []byte(pin)); err != nil {
		return ErrInvalidTransferPIN
	}
	return nil
}

func (s *Service) publishTransferCompleted(ctx context.Context, transfer domain.Transfer) {
	event := domain.TransferCompletedEvent{
		TransferID: transfer.ID,
		UserID:     transfer.UserID,
		Type:       transfer.Type,
		Amount:     transfer.Amount,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, rabbitmq.RouteTransferCompleted, event); err != nil {
		log.Printf("level=warn component=app msg=\"transfer event publish failed\" transfer_id=%s err=%v", transfer.ID, err)
	}
}
