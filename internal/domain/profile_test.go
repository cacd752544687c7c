package domain

import (
	"strings"
	"testing"
)

func validProfileCreateRequest() CreateProfileRequest {
	return CreateProfileRequest{
		FirstName:      "Egbie",
		Surname:        "Uku",
		Mobile:         "07400000000",
		Country:        "United Kingdom",
		State:          "London",
		Postcode:       "E1 6AN",
		Gender:         GenderMale,
		MaritalStatus:  MaritalSingle,
		Identification: IdentificationPassport,
		Signature:      SignatureDrawn,
	}
}

func TestCreateProfileRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateProfileRequest)
		wantField string
	}{
		{name: "valid request", mutate: func(r *CreateProfileRequest) {}},
		{name: "first name empty", mutate: func(r *CreateProfileRequest) { r.FirstName = "" }, wantField: "first_name"},
		{name: "first name too long", mutate: func(r *CreateProfileRequest) { r.FirstName = strings.Repeat("a", 41) }, wantField: "first_name"},
		{name: "accented surname counts runes not bytes", mutate: func(r *CreateProfileRequest) { r.Surname = strings.Repeat("ø", 40) }},
		{name: "accented surname over the rune limit", mutate: func(r *CreateProfileRequest) { r.Surname = strings.Repeat("ø", 41) }, wantField: "surname"},
		{name: "mobile empty", mutate: func(r *CreateProfileRequest) { r.Mobile = "" }, wantField: "mobile"},
		{name: "country too long", mutate: func(r *CreateProfileRequest) { r.Country = strings.Repeat("c", 51) }, wantField: "country"},
		{name: "postcode too long", mutate: func(r *CreateProfileRequest) { r.Postcode = strings.Repeat("1", 11) }, wantField: "postcode"},
		{name: "unknown gender", mutate: func(r *CreateProfileRequest) { r.Gender = "X" }, wantField: "gender"},
		{name: "unknown marital status", mutate: func(r *CreateProfileRequest) { r.MaritalStatus = "Z" }, wantField: "marital_status"},
		{name: "unknown identification", mutate: func(r *CreateProfileRequest) { r.Identification = "q" }, wantField: "identification_documents"},
		{name: "unknown signature", mutate: func(r *CreateProfileRequest) { r.Signature = "x" }, wantField: "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProfileCreateRequest()
			tt.mutate(&req)
			err := req.Validate()
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
