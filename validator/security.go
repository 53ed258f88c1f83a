package validator

import (
	"errors"
	"strings"
)

var (
	// ErrExcessiveTokenDots is returned when a token contains more segments
	// than any JWS or JWE serialization uses.
	ErrExcessiveTokenDots = errors.New("token contains excessive dots")

	// ErrTokenTooLarge is returned for tokens over maxTokenSize bytes.
	ErrTokenTooLarge = errors.New("token exceeds maximum size (1MB)")

	// ErrTokenEmpty is returned for an empty token string.
	ErrTokenEmpty = errors.New("token is empty")
)

const (
	// JWS compact uses 2 dots, JWE compact 4.
	maxTokenDots = 5
	maxTokenSize = 1 << 20
)

// validateTokenFormat rejects obviously malformed input before any
// decoding happens.
func validateTokenFormat(tokenString string) error {
	if tokenString == "" {
		return ErrTokenEmpty
	}
	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}
	if strings.Count(tokenString, ".") > maxTokenDots {
		return ErrExcessiveTokenDots
	}
	return nil
}
