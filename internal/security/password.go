package security

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash for storage. Plaintext passwords never
// reach a store.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports a mismatch as an error so callers can fold it into
// the same failure path as an unknown email.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
