package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

var ten = big.NewInt(10)

// RandomCode generates an n-digit numeric code with each digit drawn
// uniformly and independently. Codes are short-lived and delivered
// out-of-band, so digit-level uniformity is the only randomness requirement.
func RandomCode(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		b[i] = byte('0' + d.Int64())
	}
	return string(b), nil
}

// Digest returns the hex-encoded SHA-256 of a plaintext code. Only digests
// are ever persisted, so a leaked store cannot be replayed directly.
func Digest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
