/**
 * @description
 * This file defines the Profile model and its choice fields. Completing a
 * profile is the trigger for provisioning the user's bank account and wallet,
 * so profile validation is the last gate before money entities exist.
 */
package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Gender enumerates the accepted gender choices.
type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderOther       Gender = "O"
	GenderUndisclosed Gender = "P"
)

// MaritalStatus enumerates the accepted marital status choices.
type MaritalStatus string

const (
	MaritalSingle              MaritalStatus = "S"
	MaritalMarried             MaritalStatus = "M"
	MaritalDivorced            MaritalStatus = "D"
	MaritalWidowed             MaritalStatus = "W"
	MaritalSeparated           MaritalStatus = "SD"
	MaritalInRelationship      MaritalStatus = "I"
	MaritalEngaged             MaritalStatus = "E"
	MaritalCivilPartnership    MaritalStatus = "IACP"
	MaritalDomesticPartnership MaritalStatus = "IADP"
	MaritalComplicated         MaritalStatus = "IC"
	MaritalUndisclosed         MaritalStatus = "P"
)

// IdentificationType enumerates the accepted identity document kinds.
type IdentificationType string

const (
	IdentificationPassport       IdentificationType = "p"
	IdentificationDrivingLicence IdentificationType = "d"
	IdentificationNationalID     IdentificationType = "n"
)

// SignatureChoice records how the user supplied their signature.
type SignatureChoice string

const (
	SignatureUploaded SignatureChoice = "u"
	SignatureDrawn    SignatureChoice = "d"
)

// Profile holds the personal details a user completes after registration.
type Profile struct {
	ID             uuid.UUID          `json:"id"`
	ProfileID      string             `json:"profile_id"`
	UserID         uuid.UUID          `json:"user_id"`
	FirstName      string             `json:"first_name"`
	Surname        string             `json:"surname"`
	Email          string             `json:"email"`
	Mobile         string             `json:"mobile"`
	Country        string             `json:"country"`
	State          string             `json:"state"`
	Postcode       string             `json:"postcode"`
	Gender         Gender             `json:"gender"`
	MaritalStatus  MaritalStatus      `json:"marital_status"`
	Identification IdentificationType `json:"identification_documents"`
	Signature      SignatureChoice    `json:"signature"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CreateProfileRequest is the payload accepted when a user completes their profile.
type CreateProfileRequest struct {
	FirstName      string             `json:"first_name"`
	Surname        string             `json:"surname"`
	Mobile         string             `json:"mobile"`
	Country        string             `json:"country"`
	State          string             `json:"state"`
	Postcode       string             `json:"postcode"`
	Gender         Gender             `json:"gender"`
	MaritalStatus  MaritalStatus      `json:"marital_status"`
	Identification IdentificationType `json:"identification_documents"`
	Signature      SignatureChoice    `json:"signature"`
}

const (
	maxNameLength     = 40
	maxMobileLength   = 20
	maxRegionLength   = 50
	maxPostcodeLength = 10
)

// Validate checks the length and choice constraints on a profile request.
// Violations surface as field-level errors before anything is persisted.
// Lengths count runes so accented and non-Latin names are measured fairly.
func (r CreateProfileRequest) Validate() error {
	if r.FirstName == "" || utf8.RuneCountInString(r.FirstName) > maxNameLength {
		return &FieldValidationError{Field: "first_name", Reason: fmt.Sprintf("must be 1-%d characters", maxNameLength)}
	}
	if r.Surname == "" || utf8.RuneCountInString(r.Surname) > maxNameLength {
		return &FieldValidationError{Field: "surname", Reason: fmt.Sprintf("must be 1-%d characters", maxNameLength)}
	}
	if r.Mobile == "" || utf8.RuneCountInString(r.Mobile) > maxMobileLength {
		return &FieldValidationError{Field: "mobile", Reason: fmt.Sprintf("must be 1-%d characters", maxMobileLength)}
	}
	if utf8.RuneCountInString(r.Country) > maxRegionLength {
		return &FieldValidationError{Field: "country", Reason: fmt.Sprintf("must be at most %d characters", maxRegionLength)}
	}
	if utf8.RuneCountInString(r.State) > maxRegionLength {
		return &FieldValidationError{Field: "state", Reason: fmt.Sprintf("must be at most %d characters", maxRegionLength)}
	}
	if utf8.RuneCountInString(r.Postcode) > maxPostcodeLength {
		return &FieldValidationError{Field: "postcode", Reason: fmt.Sprintf("must be at most %d characters", maxPostcodeLength)}
	}
	switch r.Gender {
	case GenderMale, GenderFemale, GenderOther, GenderUndisclosed:
	default:
		return &FieldValidationError{Field: "gender", Reason: "unknown choice"}
	}
	switch r.MaritalStatus {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed, MaritalSeparated,
		MaritalInRelationship, MaritalEngaged, MaritalCivilPartnership, MaritalDomesticPartnership,
		MaritalComplicated, MaritalUndisclosed:
	default:
		return &FieldValidationError{Field: "marital_status", Reason: "unknown choice"}
	}
	switch r.Identification {
	case IdentificationPassport, IdentificationDrivingLicence, IdentificationNationalID:
	default:
		return &FieldValidationError{Field: "identification_documents", Reason: "unknown choice"}
	}
	switch r.Signature {
	case SignatureUploaded, SignatureDrawn:
	default:
		return &FieldValidationError{Field: "signature", Reason: "unknown choice"}
	}
	return nil
}
