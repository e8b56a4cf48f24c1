// Package security holds the credential hasher and the bearer token codec.
// Both are pure functions of their inputs plus immutable configuration and are
// safe for concurrent use.
package security

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

// Hasher derives and checks stored password credentials.
//
// The plaintext is reduced with SHA-256 before bcrypt so passwords longer than
// bcrypt's 72 byte input limit are never truncated.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, &domain.ConfigurationError{
			Field:  "BCRYPT_COST",
			Reason: fmt.Sprintf("must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost),
		}
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns a salted bcrypt credential for plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest := reduce(plaintext)
	out, err := bcrypt.GenerateFromPassword(digest[:], h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches credential. A malformed or foreign
// credential is reported as a mismatch.
func (h *Hasher) Verify(plaintext, credential string) bool {
	if credential == "" {
		return false
	}
	digest := reduce(plaintext)
	return bcrypt.CompareHashAndPassword([]byte(credential), digest[:]) == nil
}

func reduce(plaintext string) [sha256.Size]byte {
	return sha256.Sum256([]byte(plaintext))
}
