/**
 * @description
 * This file contains the HTTP handlers for the card endpoints: attaching a
 * card, listing and fetching cards, and removing them.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
)

// AttachCardHandler registers a new card for the authenticated user.
func (h *Handlers) AttachCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.AttachCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.service.AttachCard(r.Context(), userID, req)
	if err != nil {
		h.writeDomainError(w, "attach_card", err)
		return
	}

	log.Printf("level=info component=api endpoint=attach_card outcome=created user_id=%s card_id=%s wallet_stored=%t", userID, card.CardID, card.WalletID != nil)
	h.writeJSON(w, http.StatusCreated, card)
}

// ListCardsHandler returns every card owned by the authenticated user.
func (h *Handlers) ListCardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	cards, err := h.service.ListCards(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "list_cards", err)
		return
	}
	h.writeJSON(w, http.StatusOK, cards)
}

// GetCardHandler returns a single card by id.
func (h *Handlers) GetCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid card id")
		return
	}

	card, err := h.service.GetCard(r.Context(), userID, cardID)
	if err != nil {
		h.writeDomainError(w, "get_card", err)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

// RemoveCardHandler deletes a card, releasing its wallet slot if it held one.
func (h *Handlers) RemoveCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid card id")
		return
	}

	if err := h.service.RemoveCard(r.Context(), userID, cardID); err != nil {
		h.writeDomainError(w, "remove_card", err)
		return
	}

	log.Printf("level=info component=api endpoint=remove_card outcome=deleted user_id=%s card_id=%s", userID, cardID)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
