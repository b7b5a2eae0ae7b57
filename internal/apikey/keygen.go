package apikey

import (
	"crypto/rand"
	"fmt"
)

const (
	// KeyPrefix tags every generated secret so keys are recognizable in logs
	// and support tickets.
	KeyPrefix = "dandi-"

	keyRandomLen = 24

	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateKey returns a fresh secret of the form "dandi-" + 24 random
// alphanumeric characters. The space is large enough that collisions are not
// checked against existing rows; the unique index on api_keys.key is the
// backstop.
func GenerateKey() (string, error) {
	buf := make([]byte, keyRandomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return KeyPrefix + string(buf), nil
}
