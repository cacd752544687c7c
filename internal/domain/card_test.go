package domain

import (
	"strings"
	"testing"
	"time"
)

func validCardRequest() AttachCardRequest {
	return AttachCardRequest{
		CardName:    "Egbie Uku",
		CardNumber:  "4000123412341234",
		CVC:         "123",
		ExpiryMonth: "JUN",
		ExpiryYear:  2030,
		Network:     NetworkVisa,
		Type:        CardDebit,
	}
}

func TestAttachCardRequestValidate(t *testing.T) {
	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mutate    func(*AttachCardRequest)
		wantField string
	}{
		{name: "valid request", mutate: func(r *AttachCardRequest) {}},
		{name: "card name too long", mutate: func(r *AttachCardRequest) { r.CardName = strings.Repeat("x", 21) }, wantField: "card_name"},
		{name: "card name empty", mutate: func(r *AttachCardRequest) { r.CardName = "" }, wantField: "card_name"},
		{name: "accented card name counts runes not bytes", mutate: func(r *AttachCardRequest) { r.CardName = strings.Repeat("é", 20) }},
		{name: "accented card name over the rune limit", mutate: func(r *AttachCardRequest) { r.CardName = strings.Repeat("é", 21) }, wantField: "card_name"},
		{name: "card number too long", mutate: func(r *AttachCardRequest) { r.CardNumber = strings.Repeat("4", 21) }, wantField: "card_number"},
		{name: "cvc too long", mutate: func(r *AttachCardRequest) { r.CVC = "1234" }, wantField: "cvc"},
		{name: "unknown expiry month", mutate: func(r *AttachCardRequest) { r.ExpiryMonth = "JUNE" }, wantField: "expiry_month"},
		{name: "expired year", mutate: func(r *AttachCardRequest) { r.ExpiryYear = 2020 }, wantField: "expiry_year"},
		{name: "passed month in current year", mutate: func(r *AttachCardRequest) { r.ExpiryMonth = "MAR"; r.ExpiryYear = 2026 }, wantField: "expiry_year"},
		{name: "current month in current year is still valid", mutate: func(r *AttachCardRequest) { r.ExpiryMonth = "AUG"; r.ExpiryYear = 2026 }},
		{name: "unknown network", mutate: func(r *AttachCardRequest) { r.Network = "X" }, wantField: "card_options"},
		{name: "unknown card type", mutate: func(r *AttachCardRequest) { r.Type = "Z" }, wantField: "card_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCardRequest()
			tt.mutate(&req)
			err := req.Validate(now)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid request, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			fieldErr, ok := err.(*FieldValidationError)
			if !ok {
				t.Fatalf("expected FieldValidationError, got %T", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q", tt.wantField, fieldErr.Field)
			}
		})
	}
}

func TestFullAccountNumberConcatenatesIdentityPair(t *testing.T) {
	account := &BankAccount{SortCode: "400147", AccountNumber: "01232789"}
	if got := account.FullAccountNumber(); got != "40014701232789" {
		t.Fatalf("expected 40014701232789, got %q", got)
	}
}
