package app

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/store"
)

type registerRepoStub struct {
	store.Repository

	createdUser *domain.User
	createErr   error
}

func (s *registerRepoStub) CreateUser(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.createdUser = user
	return nil
}

func validRegistration() domain.RegisterUserRequest {
	return domain.RegisterUserRequest{
		Email:     "ada@example.com",
		Username:  "ada",
		FirstName: "Ada",
		Surname:   "Lovelace",
		PIN:       "1234",
	}
}

func TestRegisterUserValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.RegisterUserRequest)
		wantField string
	}{
		{
			name:      "rejects malformed email",
			mutate:    func(r *domain.RegisterUserRequest) { r.Email = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "rejects missing username",
			mutate:    func(r *domain.RegisterUserRequest) { r.Username = "" },
			wantField: "username",
		},
		{
			name:      "rejects missing first name",
			mutate:    func(r *domain.RegisterUserRequest) { r.FirstName = "" },
			wantField: "first_name",
		},
		{
			name:      "rejects short pin",
			mutate:    func(r *domain.RegisterUserRequest) { r.PIN = "123" },
			wantField: "pin",
		},
		{
			name:      "rejects overlong pin",
			mutate:    func(r *domain.RegisterUserRequest) { r.PIN = "1234567" },
			wantField: "pin",
		},
		{
			name:      "rejects non-digit pin",
			mutate:    func(r *domain.RegisterUserRequest) { r.PIN = "12a4" },
			wantField: "pin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &registerRepoStub{}
			svc := NewService(repo, &recordingPublisher{}, 0)
			req := validRegistration()
			tt.mutate(&req)

			_, err := svc.RegisterUser(context.Background(), req)

			var fieldErr *domain.FieldValidationError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected a field validation error, got %v", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q", tt.wantField, fieldErr.Field)
			}
			if repo.createdUser != nil {
				t.Fatal("expected no user to be persisted")
			}
		})
	}
}

func TestRegisterUserHashesPINAndIssuesCode(t *testing.T) {
	repo := &registerRepoStub{}
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, 0)

	user, err := svc.RegisterUser(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createdUser == nil {
		t.Fatal("expected the user to be persisted")
	}
	if user.EmailVerified {
		t.Fatal("expected a fresh user to be unverified")
	}
	if user.TransferPINHash == "1234" {
		t.Fatal("expected the pin to be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.TransferPINHash), []byte("1234")); err != nil {
		t.Fatalf("stored hash does not match the pin: %v", err)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(user.VerificationCode) {
		t.Fatalf("expected a six digit verification code, got %q", user.VerificationCode)
	}
	if user.VerificationExpiresAt == nil {
		t.Fatal("expected the verification code to carry an expiry")
	}
	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != "user.registered" {
		t.Fatalf("expected one user.registered event, got %v", publisher.routingKeys)
	}
}

func TestRegisterUserSurfacesEmailConflict(t *testing.T) {
	repo := &registerRepoStub{createErr: store.ErrEmailTaken}
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, 0)

	_, err := svc.RegisterUser(context.Background(), validRegistration())
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected email conflict, got %v", err)
	}
	if len(publisher.routingKeys) != 0 {
		t.Fatalf("expected no events on failure, got %v", publisher.routingKeys)
	}
}

type verifyRepoStub struct {
	store.Repository

	consumeErr error
	gotCode    string
}

func (s *verifyRepoStub) ConsumeVerificationCode(ctx context.Context, userID uuid.UUID, code string) error {
	s.gotCode = code
	return s.consumeErr
}

func TestVerifyEmail(t *testing.T) {
	repo := &verifyRepoStub{}
	svc := NewService(repo, &recordingPublisher{}, 0)

	if err := svc.VerifyEmail(context.Background(), uuid.New(), domain.VerifyEmailRequest{Code: "123456"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotCode != "123456" {
		t.Fatalf("expected the code to reach the store, got %q", repo.gotCode)
	}

	var fieldErr *domain.FieldValidationError
	err := svc.VerifyEmail(context.Background(), uuid.New(), domain.VerifyEmailRequest{})
	if !errors.As(err, &fieldErr) || fieldErr.Field != "code" {
		t.Fatalf("expected code validation error, got %v", err)
	}

	repo.consumeErr = store.ErrInvalidVerificationCode
	err = svc.VerifyEmail(context.Background(), uuid.New(), domain.VerifyEmailRequest{Code: "000000"})
	if !errors.Is(err, store.ErrInvalidVerificationCode) {
		t.Fatalf("expected invalid code error, got %v", err)
	}
}

type provisionRepoStub struct {
	store.Repository

	user *domain.User

	conflictsLeft int
	attempts      int

	gotProfile *domain.Profile
	gotAccount *domain.BankAccount
	gotWallet  *domain.Wallet
}

func (s *provisionRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.user, nil
}

func (s *provisionRepoStub) CreateProfileWithAccounts(ctx context.Context, profile *domain.Profile, account *domain.BankAccount, wallet *domain.Wallet) error {
	s.attempts++
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return store.ErrIdentityConflict
	}
	s.gotProfile = profile
	s.gotAccount = account
	s.gotWallet = wallet
	return nil
}

func validProfileRequest() domain.CreateProfileRequest {
	return domain.CreateProfileRequest{
		FirstName:      "Ada",
		Surname:        "Lovelace",
		Mobile:         "+447700900000",
		Country:        "United Kingdom",
		State:          "London",
		Postcode:       "E1 6AN",
		Gender:         domain.GenderFemale,
		MaritalStatus:  domain.MaritalSingle,
		Identification: domain.IdentificationPassport,
		Signature:      domain.SignatureDrawn,
	}
}

func TestCreateProfileProvisionsAccounts(t *testing.T) {
	user := testUser(t, "1234")
	repo := &provisionRepoStub{user: user}
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, 5)

	profile, err := svc.CreateProfile(context.Background(), user.ID, validProfileRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.UserID != user.ID || profile.Email != user.Email {
		t.Fatalf("profile not bound to the user: %+v", profile)
	}
	if repo.gotAccount == nil || repo.gotWallet == nil {
		t.Fatal("expected bank account and wallet to be provisioned with the profile")
	}
	if !repo.gotAccount.Amount.IsZero() || !repo.gotWallet.Amount.IsZero() {
		t.Fatalf("expected zero opening balances, got bank=%s wallet=%s", repo.gotAccount.Amount, repo.gotWallet.Amount)
	}
	if repo.gotWallet.BankAccountID == nil || *repo.gotWallet.BankAccountID != repo.gotAccount.ID {
		t.Fatal("expected the wallet to be linked to the new bank account")
	}
	if repo.gotWallet.MaximumCards != 5 {
		t.Fatalf("expected configured card capacity 5, got %d", repo.gotWallet.MaximumCards)
	}
	if len(repo.gotAccount.SortCode) != 6 || len(repo.gotAccount.AccountNumber) != 8 {
		t.Fatalf("unexpected identity shape: sort_code=%q account_number=%q", repo.gotAccount.SortCode, repo.gotAccount.AccountNumber)
	}
	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != "account.created" {
		t.Fatalf("expected one account.created event, got %v", publisher.routingKeys)
	}
}

func TestCreateProfileRetriesIdentityCollisions(t *testing.T) {
	user := testUser(t, "1234")
	repo := &provisionRepoStub{user: user, conflictsLeft: 2}
	svc := NewService(repo, &recordingPublisher{}, 0)

	if _, err := svc.CreateProfile(context.Background(), user.ID, validProfileRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", repo.attempts)
	}
}

func TestCreateProfileGivesUpAfterRepeatedCollisions(t *testing.T) {
	user := testUser(t, "1234")
	repo := &provisionRepoStub{user: user, conflictsLeft: identityRetryLimit}
	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, 0)

	_, err := svc.CreateProfile(context.Background(), user.ID, validProfileRequest())
	if !errors.Is(err, ErrIdentityGenerationExhausted) {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
	if repo.attempts != identityRetryLimit {
		t.Fatalf("expected %d attempts, got %d", identityRetryLimit, repo.attempts)
	}
	if len(publisher.routingKeys) != 0 {
		t.Fatalf("expected no events on failure, got %v", publisher.routingKeys)
	}
}

func TestCreateProfileSurfacesExistingProfile(t *testing.T) {
	user := testUser(t, "1234")
	repo := &provisionFailStub{user: user, err: store.ErrProfileExists}
	svc := NewService(repo, &recordingPublisher{}, 0)

	_, err := svc.CreateProfile(context.Background(), user.ID, validProfileRequest())
	if !errors.Is(err, store.ErrProfileExists) {
		t.Fatalf("expected profile exists error, got %v", err)
	}
}

type provisionFailStub struct {
	store.Repository

	user *domain.User
	err  error
}

func (s *provisionFailStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.user, nil
}

func (s *provisionFailStub) CreateProfileWithAccounts(ctx context.Context, profile *domain.Profile, account *domain.BankAccount, wallet *domain.Wallet) error {
	return s.err
}

type profileUpdateRepoStub struct {
	store.Repository

	profile    *domain.Profile
	updated    *domain.Profile
	updateCall bool
}

func (s *profileUpdateRepoStub) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if s.profile == nil {
		return nil, store.ErrProfileNotFound
	}
	return s.profile, nil
}

func (s *profileUpdateRepoStub) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	s.updateCall = true
	s.updated = profile
	return nil
}

func TestUpdateProfileKeepsIdentity(t *testing.T) {
	userID := uuid.New()
	original := &domain.Profile{
		ID:        uuid.New(),
		ProfileID: "abc123",
		UserID:    userID,
		FirstName: "Ada",
		Surname:   "Lovelace",
		Email:     "ada@example.com",
		Mobile:    "+447700900000",
	}
	repo := &profileUpdateRepoStub{profile: original}
	svc := NewService(repo, &recordingPublisher{}, 0)

	req := validProfileRequest()
	req.Mobile = "+447700900123"
	updated, err := svc.UpdateProfile(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.updateCall {
		t.Fatal("expected the store update to run")
	}
	if updated.ProfileID != "abc123" || updated.UserID != userID {
		t.Fatalf("identity fields changed: %+v", updated)
	}
	if updated.Mobile != "+447700900123" {
		t.Fatalf("expected the mobile number to update, got %q", updated.Mobile)
	}
}
