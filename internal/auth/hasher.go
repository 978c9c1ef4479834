package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when none is configured.
const DefaultHashCost = bcrypt.DefaultCost

// Hasher hashes and verifies passwords and security answers with bcrypt.
// Errors it returns never carry the secret.
type Hasher struct {
	cost  int
	dummy []byte
}

func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultHashCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("taskpad-dummy-secret"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: prepare dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash returns a salted bcrypt hash of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", fmt.Errorf("auth: hash secret: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether secret matches hashed. A malformed hash never matches.
func (h *Hasher) Verify(secret, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}

// VerifyDummy burns one comparison so a lookup miss costs as much as a real check.
func (h *Hasher) VerifyDummy(secret string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(secret))
}
