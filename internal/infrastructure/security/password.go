package security

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/buscaroli/shifts-api/internal/core/domain"
)

// bcrypt only reads the first 72 bytes of its input.
const maxPasswordBytes = 72

// BcryptHasher implements ports.PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash trims plaintext and returns its salted bcrypt hash.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	plaintext = strings.TrimSpace(plaintext)
	if plaintext == "" {
		return "", domain.Invalid("password is required")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", domain.Invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes and empty
// input never match.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	plaintext = strings.TrimSpace(plaintext)
	if plaintext == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
