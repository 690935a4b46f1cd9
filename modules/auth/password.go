package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades hash strength against login latency. Raising it later
// is safe: old hashes still verify, new ones pick up the higher cost.
const bcryptCost = 12

// PasswordHasher hashes and verifies passwords. Keeping the cost behind a
// type means a future rehash-on-login only touches this file.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher at the standard cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash derives a bcrypt hash from the password. Callers enforce the 72-byte
// input limit before reaching here.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
