/**
 * @description
 * This file defines the User model together with the registration and email
 * verification DTOs. Passwords and sessions are handled at the boundary; the
 * core only carries the bcrypt hash of the user's transfer PIN, which gates
 * every money-movement operation.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the bank.
type User struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	Username              string     `json:"username"`
	FirstName             string     `json:"first_name"`
	Surname               string     `json:"surname"`
	TransferPINHash       string     `json:"-"`
	EmailVerified         bool       `json:"email_verified"`
	VerificationCode      string     `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// RegisterUserRequest is the payload accepted when a new user signs up.
type RegisterUserRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	PIN       string `json:"pin"`
}

// VerifyEmailRequest carries the code sent to the user's email address.
type VerifyEmailRequest struct {
	Code string `json:"code"`
}
