package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/store"
)

type recordingPublisher struct {
	routingKeys []string
	publishErr  error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	return p.publishErr
}

func (p *recordingPublisher) Close() {}

func testUser(t *testing.T, pin string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing pin: %v", err)
	}
	return &domain.User{
		ID:              uuid.New(),
		Email:           "ada@example.com",
		Username:        "ada",
		TransferPINHash: string(hash),
		EmailVerified:   true,
	}
}

type transferRepoStub struct {
	store.Repository

	user   *domain.User
	wallet *domain.Wallet

	transferResult *domain.TransferResult
	transferErr    error

	walletToBankCalled bool
	bankToWalletCalled bool
	gotAmount          decimal.Decimal
	gotBankAccountID   uuid.UUID
	gotWalletID        uuid.UUID
}

func (s *transferRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.user == nil {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *transferRepoStub) FindWalletByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	if s.wallet == nil {
		return nil, store.ErrWalletNotFound
	}
	return s.wallet, nil
}

func (s *transferRepoStub) TransferWalletToBank(ctx context.Context, userID uuid.UUID, walletID uuid.UUID, bankAccountID uuid.UUID, amount decimal.Decimal) (*domain.TransferResult, error) {
	s.walletToBankCalled = true
	s.gotAmount = amount
	s.gotWalletID = walletID
	s.gotBankAccountID = bankAccountID
	return s.transferResult, s.transferErr
}

func (s *transferRepoStub) TransferBankToWallet(ctx context.Context, userID uuid.UUID, bankAccountID uuid.UUID, walletID uuid.UUID, amount decimal.Decimal) (*domain.TransferResult, error) {
	s.bankToWalletCalled = true
	s.gotAmount = amount
	s.gotBankAccountID = bankAccountID
	s.gotWalletID = walletID
	return s.transferResult, s.transferErr
}

func connectedWallet(user *domain.User) (*domain.Wallet, uuid.UUID) {
	bankAccountID := uuid.New()
	wallet := &domain.Wallet{
		ID:            uuid.New(),
		WalletID:      "w-1",
		Amount:        decimal.NewFromInt(100),
		BankAccountID: &bankAccountID,
		UserID:        user.ID,
	}
	return wallet, bankAccountID
}

func TestTransferWalletToBank(t *testing.T) {
	user := testUser(t, "1234")

	tests := []struct {
		name        string
		amount      decimal.Decimal
		pin         string
		disconnect  bool
		transferErr error
		wantErr     error
		wantCalled  bool
	}{
		{
			name:    "rejects non-positive amount",
			amount:  decimal.Zero,
			pin:     "1234",
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "rejects wrong pin before touching balances",
			amount:  decimal.NewFromInt(10),
			pin:     "9999",
			wantErr: ErrInvalidTransferPIN,
		},
		{
			name:       "rejects wallet without bank link",
			amount:     decimal.NewFromInt(10),
			pin:        "1234",
			disconnect: true,
			wantErr:    domain.ErrBankNotConnectedToWallet,
		},
		{
			name:        "propagates insufficient funds from the store",
			amount:      decimal.NewFromInt(500),
			pin:         "1234",
			transferErr: domain.ErrWalletInsufficientFunds,
			wantErr:     domain.ErrWalletInsufficientFunds,
			wantCalled:  true,
		},
		{
			name:       "moves the amount on success",
			amount:     decimal.NewFromInt(40),
			pin:        "1234",
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet, bankAccountID := connectedWallet(user)
			if tt.disconnect {
				wallet.BankAccountID = nil
			}
			repo := &transferRepoStub{user: user, wallet: wallet}
			if tt.transferErr == nil {
				repo.transferResult = &domain.TransferResult{
					Transfer: domain.Transfer{
						ID:     uuid.New(),
						UserID: user.ID,
						Type:   domain.TransferWalletToBank,
						Amount: tt.amount,
					},
					BankAmount:   tt.amount,
					WalletAmount: wallet.Amount.Sub(tt.amount),
				}
			}
			repo.transferErr = tt.transferErr
			publisher := &recordingPublisher{}
			svc := NewService(repo, publisher, 0)

			result, err := svc.TransferWalletToBank(context.Background(), user.ID, domain.TransferRequest{Amount: tt.amount, PIN: tt.pin})

			if repo.walletToBankCalled != tt.wantCalled {
				t.Fatalf("expected store call=%v, got %v", tt.wantCalled, repo.walletToBankCalled)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if len(publisher.routingKeys) != 0 {
					t.Fatalf("expected no events on failure, got %v", publisher.routingKeys)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !repo.gotAmount.Equal(tt.amount) {
				t.Fatalf("expected store amount %s, got %s", tt.amount, repo.gotAmount)
			}
			if repo.gotBankAccountID != bankAccountID {
				t.Fatalf("expected transfer against linked bank account %s, got %s", bankAccountID, repo.gotBankAccountID)
			}
			if result == nil || result.Transfer.Type != domain.TransferWalletToBank {
				t.Fatalf("unexpected result: %+v", result)
			}
			if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != "transfer.completed" {
				t.Fatalf("expected one transfer.completed event, got %v", publisher.routingKeys)
			}
		})
	}
}

func TestFailedTransferCanBeRetriedWithSameOutcome(t *testing.T) {
	user := testUser(t, "1234")
	wallet, _ := connectedWallet(user)
	startingAmount := wallet.Amount

	repo := &transferRepoStub{
		user:        user,
		wallet:      wallet,
		transferErr: domain.ErrWalletInsufficientFunds,
	}
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, 0)
	request := domain.TransferRequest{Amount: decimal.NewFromInt(500), PIN: "1234"}

	first, firstErr := svc.TransferWalletToBank(context.Background(), user.ID, request)
	second, secondErr := svc.TransferWalletToBank(context.Background(), user.ID, request)

	if !errors.Is(firstErr, domain.ErrWalletInsufficientFunds) {
		t.Fatalf("expected insufficient funds on first attempt, got %v", firstErr)
	}
	if !errors.Is(secondErr, domain.ErrWalletInsufficientFunds) {
		t.Fatalf("expected the repeated attempt to fail identically, got %v", secondErr)
	}
	if first != nil || second != nil {
		t.Fatalf("expected no result from failed transfers, got %v and %v", first, second)
	}
	if !wallet.Amount.Equal(startingAmount) {
		t.Fatalf("expected wallet balance untouched at %s, got %s", startingAmount, wallet.Amount)
	}
	if len(publisher.routingKeys) != 0 {
		t.Fatalf("expected no events from failed transfers, got %v", publisher.routingKeys)
	}
}

func TestTransferBankToWallet(t *testing.T) {
	user := testUser(t, "1234")
	wallet, bankAccountID := connectedWallet(user)
	amount := decimal.NewFromInt(25)

	repo := &transferRepoStub{
		user:   user,
		wallet: wallet,
		transferResult: &domain.TransferResult{
			Transfer: domain.Transfer{ID: uuid.New(), UserID: user.ID, Type: domain.TransferBankToWallet, Amount: amount},
		},
	}
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, 0)

	result, err := svc.TransferBankToWallet(context.Background(), user.ID, domain.TransferRequest{Amount: amount, PIN: "1234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.bankToWalletCalled {
		t.Fatal("expected the store transfer to run")
	}
	if repo.gotBankAccountID != bankAccountID || repo.gotWalletID != wallet.ID {
		t.Fatalf("expected transfer between %s and %s, got %s and %s", bankAccountID, wallet.ID, repo.gotBankAccountID, repo.gotWalletID)
	}
	if result.Transfer.Type != domain.TransferBankToWallet {
		t.Fatalf("unexpected transfer type %q", result.Transfer.Type)
	}
	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != "transfer.completed" {
		t.Fatalf("expected one transfer.completed event, got %v", publisher.routingKeys)
	}
}

type cardTransferRepoStub struct {
	store.Repository

	user    *domain.User
	cards   map[uuid.UUID]*domain.Card
	account *domain.BankAccount
}

func (s *cardTransferRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.user, nil
}

func (s *cardTransferRepoStub) FindCardByID(ctx context.Context, cardID uuid.UUID, userID uuid.UUID) (*domain.Card, error) {
	card, ok := s.cards[cardID]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (s *cardTransferRepoStub) FindBankAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.BankAccount, error) {
	if s.account == nil {
		return nil, store.ErrBankAccountNotFound
	}
	return s.account, nil
}

func TestCardTransfersReportUnsupported(t *testing.T) {
	user := testUser(t, "1234")
	source := &domain.Card{ID: uuid.New(), CardID: "c-1"}
	target := &domain.Card{ID: uuid.New(), CardID: "c-2"}
	repo := &cardTransferRepoStub{
		user:    user,
		cards:   map[uuid.UUID]*domain.Card{source.ID: source, target.ID: target},
		account: &domain.BankAccount{ID: uuid.New(), UserID: user.ID},
	}
	svc := NewService(repo, &recordingPublisher{}, 0)

	err := svc.TransferCardToBank(context.Background(), user.ID, domain.CardTransferRequest{
		SourceCardID: source.ID,
		Amount:       decimal.NewFromInt(5),
		PIN:          "1234",
	})
	if !errors.Is(err, domain.ErrCardTransferUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}

	err = svc.TransferBetweenCards(context.Background(), user.ID, domain.CardTransferRequest{
		SourceCardID: source.ID,
		TargetCardID: &target.ID,
		Amount:       decimal.NewFromInt(5),
		PIN:          "1234",
	})
	if !errors.Is(err, domain.ErrCardTransferUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}

func TestCardTransferValidationRunsFirst(t *testing.T) {
	user := testUser(t, "1234")
	repo := &cardTransferRepoStub{user: user, cards: map[uuid.UUID]*domain.Card{}}
	svc := NewService(repo, &recordingPublisher{}, 0)

	err := svc.TransferCardToBank(context.Background(), user.ID, domain.CardTransferRequest{
		SourceCardID: uuid.New(),
		Amount:       decimal.Zero,
		PIN:          "1234",
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	err = svc.TransferBetweenCards(context.Background(), user.ID, domain.CardTransferRequest{
		SourceCardID: uuid.New(),
		Amount:       decimal.NewFromInt(5),
		PIN:          "1234",
	})
	var fieldErr *domain.FieldValidationError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "target_card_id" {
		t.Fatalf("expected target_card_id validation error, got %v", err)
	}

	err = svc.TransferCardToBank(context.Background(), user.ID, domain.CardTransferRequest{
		SourceCardID: uuid.New(),
		Amount:       decimal.NewFromInt(5),
		PIN:          "1234",
	})
	if !errors.Is(err, store.ErrCardNotFound) {
		t.Fatalf("expected card not found, got %v", err)
	}
}
