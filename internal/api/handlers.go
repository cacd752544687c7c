/**
 * @description
 * This file contains the HTTP handlers for the onboarding and lookup endpoints.
 * Handlers are responsible for parsing incoming requests, calling the appropriate
 * methods on the application service, and writing the HTTP response. They act as
 * the bridge between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/app"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/store"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service            *app.Service
	limiter            *app.RedisTransferRateLimiter
	transferRatePerMin int
}

// NewHandlers creates a new instance of Handlers. The limiter may be nil, in
// which case transfer endpoints are not rate limited.
func NewHandlers(service *app.Service, limiter *app.RedisTransferRateLimiter, transferRatePerMin int) *Handlers {
	return &Handlers{
		service:            service,
		limiter:            limiter,
		transferRatePerMin: transferRatePerMin,
	}
}

// RegisterUserHandler handles new user sign-ups.
func (h *Handlers) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=register outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, "register", err)
		return
	}

	log.Printf("level=info component=api endpoint=register outcome=created user_id=%s", user.ID)
	h.writeJSON(w, http.StatusCreated, user)
}

// VerifyEmailHandler consumes the emailed verification code.
func (h *Handlers) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.VerifyEmail(r.Context(), userID, req); err != nil {
		h.writeDomainError(w, "verify_email", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// CreateProfileHandler completes the user's profile and provisions their bank
// account and wallet.
func (h *Handlers) CreateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeDomainError(w, "create_profile", err)
		return
	}

	log.Printf("level=info component=api endpoint=create_profile outcome=created user_id=%s profile_id=%s", userID, profile.ProfileID)
	h.writeJSON(w, http.StatusCreated, profile)
}

// GetProfileHandler returns the authenticated user's profile.
func (h *Handlers) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "get_profile", err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler applies a full profile update.
func (h *Handlers) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeDomainError(w, "update_profile", err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// GetBankAccountHandler returns the authenticated user's bank account.
func (h *Handlers) GetBankAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	account, err := h.service.GetBankAccount(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "get_bank_account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// LookupBankAccountHandler resolves a bank account from its sort code and
// account number pair.
func (h *Handlers) LookupBankAccountHandler(w http.ResponseWriter, r *http.Request) {
	sortCode := r.URL.Query().Get("sort_code")
	accountNumber := r.URL.Query().Get("account_number")
	if sortCode == "" || accountNumber == "" {
		h.writeError(w, http.StatusBadRequest, "sort_code and account_number are required")
		return
	}

	account, err := h.service.GetBankAccountByNumber(r.Context(), sortCode, accountNumber)
	if err != nil {
		h.writeDomainError(w, "lookup_bank_account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// GetWalletHandler returns the authenticated user's wallet.
func (h *Handlers) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "get_wallet", err)
		return
	}
	h.writeJSON(w, http.StatusOK, wallet)
}

// GetWalletByIDHandler looks up a wallet by its external wallet_id token.
func (h *Handlers) GetWalletByIDHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletID")
	if walletID == "" {
		h.writeError(w, http.StatusBadRequest, "wallet id is required")
		return
	}

	wallet, err := h.service.GetWalletByWalletID(r.Context(), walletID)
	if err != nil {
		h.writeDomainError(w, "get_wallet_by_id", err)
		return
	}
	h.writeJSON(w, http.StatusOK, wallet)
}

// ListWalletsByBankAccountHandler returns every wallet linked to a bank account.
func (h *Handlers) ListWalletsByBankAccountHandler(w http.ResponseWriter, r *http.Request) {
	bankAccountID, err := uuid.Parse(chi.URLParam(r, "bankAccountID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid bank account id")
		return
	}

	wallets, err := h.service.GetWalletsByBankAccount(r.Context(), bankAccountID)
	if err != nil {
		h.writeDomainError(w, "list_wallets_by_bank_account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, wallets)
}

// writeDomainError maps business errors onto HTTP statuses. Anything not in
// the taxonomy is treated as an internal failure and logged.
func (h *Handlers) writeDomainError(w http.ResponseWriter, endpoint string, err error) {
	var fieldErr *domain.FieldValidationError
	var insufficient *domain.InsufficientFundsError

	switch {
	case errors.As(err, &fieldErr):
		h.writeError(w, http.StatusBadRequest, fieldErr.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		h.writeError(w, http.StatusBadRequest, "Amount must be greater than zero")
	case errors.Is(err, store.ErrInvalidVerificationCode):
		h.writeError(w, http.StatusBadRequest, "Verification code is invalid or has expired")
	case errors.Is(err, app.ErrInvalidTransferPIN):
		h.writeError(w, http.StatusUnauthorized, "Invalid transfer PIN")
	case errors.As(err, &insufficient):
		h.writeError(w, http.StatusPaymentRequired, insufficient.Error())
	case errors.Is(err, domain.ErrBankInsufficientFunds), errors.Is(err, domain.ErrWalletInsufficientFunds):
		h.writeError(w, http.StatusPaymentRequired, "Insufficient funds")
	case errors.Is(err, domain.ErrBankNotConnectedToWallet):
		h.writeError(w, http.StatusConflict, "Wallet is not connected to a bank account")
	case errors.Is(err, domain.ErrWalletCardLimitExceeded):
		h.writeError(w, http.StatusConflict, "Wallet card limit reached")
	case errors.Is(err, store.ErrEmailTaken):
		h.writeError(w, http.StatusConflict, "A user with this email or username already exists")
	case errors.Is(err, store.ErrProfileExists):
		h.writeError(w, http.StatusConflict, "A profile already exists for this user")
	case errors.Is(err, domain.ErrCardTransferUnsupported):
		h.writeError(w, http.StatusNotImplemented, "Card transfers are not supported")
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrBankAccountNotFound),
		errors.Is(err, store.ErrWalletNotFound),
		errors.Is(err, store.ErrCardNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("level=error component=api endpoint=%s msg=\"unhandled error\" err=%v", endpoint, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// consumeTransferRateLimit enforces the per-user fixed window on transfer
// endpoints. Returns false after writing the 429 response when the caller is
// over the limit. Limiter failures fail open.
func (h *Handlers) consumeTransferRateLimit(w http.ResponseWriter, r *http.Request, subject string) bool {
	if h.limiter == nil || h.transferRatePerMin <= 0 {
		return true
	}
	count, retryAfter, err := h.limiter.ConsumeRateLimit(r.Context(), "transfer", subject, h.transferRatePerMin, time.Minute)
	if err != nil {
		log.Printf("level=warn component=api msg=\"rate limiter unavailable; allowing request\" err=%v", err)
		return true
	}
	if count > h.transferRatePerMin {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.writeError(w, http.StatusTooManyRequests, "Too many transfer attempts. Please try again shortly.")
		return false
	}
	return true
}

// writeJSON is a helper for writing JSON responses.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
