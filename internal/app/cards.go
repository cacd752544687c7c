/**
 * @description
 * This file contains the card lifecycle operations: attaching a card to the
 * user's bank account (optionally also storing it in the wallet, subject to
 * the wallet's card capacity), listing cards, and removing them.
 */
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/EgbieAndersonUku1/VirtualBank/internal/domain"
	"github.com/EgbieAndersonUku1/VirtualBank/internal/store"
	"github.com/EgbieAndersonUku1/VirtualBank/pkg/codegen"
)

// AttachCard registers a new card against the user's bank account. When the
// request asks for wallet storage the wallet's capacity is checked up front
// for an early error; the store re-checks it under lock.
func (s *Service) AttachCard(ctx context.Context, userID uuid.UUID, req domain.AttachCardRequest) (*domain.Card, error) {
	if err := req.Validate(time.Now()); err != nil {
		return nil, err
	}
	account, err := s.repo.FindBankAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var walletID *uuid.UUID
	if req.AttachToWallet {
		wallet, err := s.repo.FindWalletByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !wallet.HasCardCapacity() {
			return nil, domain.ErrWalletCardLimitExceeded
		}
		walletID = &wallet.ID
	}

	var lastErr error
	for attempt := 1; attempt <= identityRetryLimit; attempt++ {
		cardID, err := codegen.HexToken()
		if err != nil {
			return nil, err
		}
		card := &domain.Card{
			ID:            uuid.New(),
			CardID:        cardID,
			CardName:      req.CardName,
			CardNumber:    req.CardNumber,
			Network:       req.Network,
			Type:          req.Type,
			CVC:           req.CVC,
			ExpiryMonth:   req.ExpiryMonth,
			ExpiryYear:    req.ExpiryYear,
			BankAccountID: account.ID,
			WalletID:      walletID,
		}
		err = s.repo.AttachCard(ctx, card)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, store.ErrIdentityConflict) {
			return nil, err
		}
		log.Printf("level=warn component=app msg=\"identity collision during card attach\" user_id=%s attempt=%d", userID, attempt)
		lastErr = err
	}
	return nil, errors.Join(ErrIdentityGenerationExhausted, lastErr)
}

// GetCard returns one of the user's cards by id.
func (s *Service) GetCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*domain.Card, error) {
	return s.repo.FindCardByID(ctx, cardID, userID)
}

// ListCards returns every card owned by the user.
func (s *Service) ListCards(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	return s.repo.ListCardsByUserID(ctx, userID)
}

// RemoveCard deletes a card. If the card was stored in a wallet the wallet's
// card count is released inside the same transaction.
func (s *Service) RemoveCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) error {
	return s.repo.RemoveCard(ctx, userID, cardID)
}
