/**
 * @description
 * This package generates the identity values assigned to banking entities before
 * their first persist: opaque hex tokens for bank/wallet/card ids and fixed-length
 * digit strings for sort codes and account numbers.
 *
 * @dependencies
 * - crypto/rand, encoding/hex: Standard Go libraries for unpredictable randomness.
 */
package codegen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	// SortCodeLength is the fixed width of a bank sort code.
	SortCodeLength = 6
	// AccountNumberLength is the fixed width of a bank account number.
	AccountNumberLength = 8
	// TokenBytes is the number of random bytes behind a hex identity token.
	TokenBytes = 16
)

// HexToken returns an unpredictable lowercase hex token of 2*TokenBytes characters,
// used for bank_id, wallet_id, card_id and profile_id values.
func HexToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// DigitCode returns a random string of exactly length decimal digits.
// Leading zeros are valid: sort codes and account numbers are identifiers,
// not numbers.
func DigitCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("digit code length must be positive, got %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	code := make([]byte, length)
	for i, b := range buf {
		code[i] = '0' + b%10
	}
	return string(code), nil
}

// SortCode returns a random 6-digit sort code.
func SortCode() (string, error) {
	return DigitCode(SortCodeLength)
}

// AccountNumber returns a random 8-digit account number.
func AccountNumber() (string, error) {
	return DigitCode(AccountNumberLength)
}
