package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenSource mints opaque session tokens. A token carries no claims; it is
// only meaningful as a session-store key, so implementations just need to
// return a fresh unguessable value per call.
type TokenSource interface {
	NewToken() (string, error)
}

// RandomTokenSource draws 32 bytes from crypto/rand per token and hex
// encodes them.
type RandomTokenSource struct{}

func (RandomTokenSource) NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
