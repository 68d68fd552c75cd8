package auth

import "golang.org/x/crypto/bcrypt"

// Hasher turns plaintext passwords into opaque credentials and verifies
// them. The cost is fixed at construction so tests can use a cheap one.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost; values outside
// bcrypt's range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt credential for plain
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify safely compares a stored credential and a plaintext password
func (h *Hasher) Verify(plain, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(plain)) == nil
}
