/**
 * @description
 * This file contains the onboarding flow: user registration with an emailed
 * verification code, email verification, and profile completion. Completing a
 * profile provisions the user's bank account and wallet in one transaction; the
 * generated identity values (profile id, bank id, sort code, account number,
 * wallet id) are regenerated and retried a bounded number of times when they
 * collide with existing records.
 *
 * @dependencies
 * - golang.org/x/crypto/bcrypt: Transfer PIN hashing.
 * - pkg/codegen: Identity value generation.
 * - pkg/rabbitmq: user.registered and account.created events.
 */
package app

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/store"
	"github.com/EgbieAndersonUku1/VirtualBank/pkg/codegen"
	"github.com/EgbieAndersonUku1/VirtualBank/pkg/rabbitmq"
)

const (
	verificationCodeLength = 6
	verificationCodeTTL    = 24 * time.Hour
	minPINLength           = 4
	maxPINLength           = 6
	maxUsernameLength      = 40
)

// RegisterUser creates a new unverified user. The transfer PIN is stored only
// as a bcrypt hash, and the verification code is handed to the mailer through
// the user.registered event.
func (s *Service) RegisterUser(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	code, err := codegen.DigitCode(verificationCodeLength)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(verificationCodeTTL)
	user := &domain.User{
		ID:                    uuid.New(),
		Email:                 req.Email,
		Username:              req.Username,
		FirstName:             req.FirstName,
		Surname:               req.Surname,
		TransferPINHash:       string(pinHash),
		EmailVerified:         false,
		VerificationCode:      code,
		VerificationExpiresAt: &expiresAt,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	event := domain.UserRegisteredEvent{
		UserID:           user.ID,
		Email:            user.Email,
		VerificationCode: code,
		Timestamp:        time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, rabbitmq.RouteUserRegistered, event); err != nil {
		log.Printf("level=warn component=app msg=\"registration event publish failed\" user_id=%s err=%v", user.ID, err)
	}
	return user, nil
}

// VerifyEmail consumes the verification code sent at registration and marks
// the user's email address verified.
func (s *Service) VerifyEmail(ctx context.Context, userID uuid.UUID, req domain.VerifyEmailRequest) error {
	if req.Code == "" {
		return &domain.FieldValidationError{Field: "code", Reason: "required"}
	}
	return s.repo.ConsumeVerificationCode(ctx, userID, req.Code)
}

// CreateProfile completes the user's profile and provisions their bank account
// and wallet atomically. Identity values are regenerated on collision up to
// identityRetryLimit attempts.
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, req domain.CreateProfileRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= identityRetryLimit; attempt++ {
		profile, account, wallet, err := s.buildAccountSet(user, req)
		if err != nil {
			return nil, err
		}
		err = s.repo.CreateProfileWithAccounts(ctx, profile, account, wallet)
		if err == nil {
			s.publishAccountCreated(ctx, user.ID, account, wallet)
			return profile, nil
		}
		if !errors.Is(err, store.ErrIdentityConflict) {
			return nil, err
		}
		log.Printf("level=warn component=app msg=\"identity collision during provisioning\" user_id=%s attempt=%d", userID, attempt)
		lastErr = err
	}
	return nil, errors.Join(ErrIdentityGenerationExhausted, lastErr)
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.repo.FindProfileByUserID(ctx, userID)
}

// UpdateProfile applies a full profile update. Identity fields and the link to
// the owning user never change.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req domain.CreateProfileRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.FirstName = req.FirstName
	profile.Surname = req.Surname
	profile.Mobile = req.Mobile
	profile.Country = req.Country
	profile.State = req.State
	profile.Postcode = req.Postcode
	profile.Gender = req.Gender
	profile.MaritalStatus = req.MaritalStatus
	profile.Identification = req.Identification
	profile.Signature = req.Signature

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// buildAccountSet assembles a fresh profile, bank account, and wallet with
// newly generated identity values. Balances start at zero.
func (s *Service) buildAccountSet(user *domain.User, req domain.CreateProfileRequest) (*domain.Profile, *domain.BankAccount, *domain.Wallet, error) {
	profileID, err := codegen.HexToken()
	if err != nil {
		return nil, nil, nil, err
	}
	bankID, err := codegen.HexToken()
	if err != nil {
		return nil, nil, nil, err
	}
	sortCode, err := codegen.SortCode()
	if err != nil {
		return nil, nil, nil, err
	}
	accountNumber, err := codegen.AccountNumber()
	if err != nil {
		return nil, nil, nil, err
	}
	walletID, err := codegen.HexToken()
	if err != nil {
		return nil, nil, nil, err
	}

	profile := &domain.Profile{
		ID:             uuid.New(),
		ProfileID:      profileID,
		UserID:         user.ID,
		FirstName:      req.FirstName,
		Surname:        req.Surname,
		Email:          user.Email,
		Mobile:         req.Mobile,
		Country:        req.Country,
		State:          req.State,
		Postcode:       req.Postcode,
		Gender:         req.Gender,
		MaritalStatus:  req.MaritalStatus,
		Identification: req.Identification,
		Signature:      req.Signature,
	}
	account := &domain.BankAccount{
		ID:            uuid.New(),
		BankID:        bankID,
		SortCode:      sortCode,
		AccountNumber: accountNumber,
		Amount:        decimal.Zero,
		UserID:        user.ID,
	}
	wallet := &domain.Wallet{
		ID:                 uuid.New(),
		WalletID:           walletID,
		Amount:             decimal.Zero,
		LastAmountReceived: decimal.Zero,
		TotalCards:         0,
		MaximumCards:       s.maximumCards,
		BankAccountID:      &account.ID,
		UserID:             user.ID,
	}
	return profile, account, wallet, nil
}

func (s *Service) publishAccountCreated(ctx context.Context, userID uuid.UUID, account *domain.BankAccount, wallet *domain.Wallet) {
	event := domain.AccountCreatedEvent{
		UserID:        userID,
		BankAccountID: account.ID,
		WalletID:      wallet.ID,
		SortCode:      account.SortCode,
		AccountNumber: account.AccountNumber,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, rabbitmq.RouteAccountCreated, event); err != nil {
		log.Printf("level=warn component=app msg=\"account event publish failed\" user_id=%s err=%v", userID, err)
	}
}

func validateRegistration(req domain.RegisterUserRequest) error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return &domain.FieldValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if req.Username == "" || utf8.RuneCountInString(req.Username) > maxUsernameLength {
		return &domain.FieldValidationError{Field: "username", Reason: "required"}
	}
	if req.FirstName == "" {
		return &domain.FieldValidationError{Field: "first_name", Reason: "required"}
	}
	if req.Surname == "" {
		return &domain.FieldValidationError{Field: "surname", Reason: "required"}
	}
	if len(req.PIN) < minPINLength || len(req.PIN) > maxPINLength {
		return &domain.FieldValidationError{Field: "pin", Reason: "must be 4-6 digits"}
	}
	for _, c := range req.PIN {
		if c < '0' || c > '9' {
			return &domain.FieldValidationError{Field: "pin", Reason: "must be 4-6 digits"}
		}
	}
	return nil
}
