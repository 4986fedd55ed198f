// Package hashing turns plaintext passwords into stored verifiers and checks
// candidates against them. bcrypt embeds a random per-call salt and the cost
// factor into the verifier itself, so no extra columns are needed.
package hashing

import "golang.org/x/crypto/bcrypt"

// DefaultCost matches the work factor the service has always used.
const DefaultCost = 10

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a verifier for the plaintext. Two calls with the same
// plaintext yield different verifiers because of the embedded random salt.
func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Verify reports whether plaintext matches the stored verifier. A malformed
// verifier is treated as a mismatch, never as an error: corrupted stored data
// must not break the login path.
func (h *BcryptHasher) Verify(plaintext string, verifier []byte) bool {
	return bcrypt.CompareHashAndPassword(verifier, []byte(plaintext)) == nil
}
