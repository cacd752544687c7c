/**
 * @description
 * This file contains the HTTP handlers for the money-movement endpoints. Each
 * transfer endpoint is rate limited per user and delegates the atomic work to
 * the application service; the handlers only translate between HTTP and the
 * business error taxonomy.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

// WalletToBankTransferHandler moves funds from the user's wallet into its
// linked bank account.
func (h *Handlers) WalletToBankTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}
	if !h.consumeTransferRateLimit(w, r, userID.String()) {
		return
	}

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.TransferWalletToBank(r.Context(), userID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=wallet_to_bank outcome=failed user_id=%s err=%v", userID, err)
		h.writeDomainError(w, "wallet_to_bank", err)
		return
	}

	log.Printf("level=info component=api endpoint=wallet_to_bank outcome=completed user_id=%s transfer_id=%s amount=%s", userID, result.Transfer.ID, result.Transfer.Amount.StringFixed(2))
	h.writeJSON(w, http.StatusOK, result)
}

// BankToWalletTransferHandler moves funds from the user's bank account into
// its connected wallet.
func (h *Handlers) BankToWalletTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}
	if !h.consumeTransferRateLimit(w, r, userID.String()) {
		return
	}

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.TransferBankToWallet(r.Context(), userID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=bank_to_wallet outcome=failed user_id=%s err=%v", userID, err)
		h.writeDomainError(w, "bank_to_wallet", err)
		return
	}

	log.Printf("level=info component=api endpoint=bank_to_wallet outcome=completed user_id=%s transfer_id=%s amount=%s", userID, result.Transfer.ID, result.Transfer.Amount.StringFixed(2))
	h.writeJSON(w, http.StatusOK, result)
}

// CardToBankTransferHandler validates a card-to-bank movement request. The
// operation itself is unsupported and reports as such after validation.
func (h *Handlers) CardToBankTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}
	if !h.consumeTransferRateLimit(w, r, userID.String()) {
		return
	}

	var req domain.CardTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.TransferCardToBank(r.Context(), userID, req)
	h.writeDomainError(w, "card_to_bank", err)
}

// CardToCardTransferHandler validates a card-to-card movement request, which
// is likewise unsupported.
func (h *Handlers) CardToCardTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}
	if !h.consumeTransferRateLimit(w, r, userID.String()) {
		return
	}

	var req domain.CardTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.TransferBetweenCards(r.Context(), userID, req)
	h.writeDomainError(w, "card_to_card", err)
}

// ListTransfersHandler returns the user's transfer history, newest first.
func (h *Handlers) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	transfers, err := h.service.ListTransfers(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "list_transfers", err)
		return
	}
	h.writeJSON(w, http.StatusOK, transfers)
}
