package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ResetSecretBytes is the amount of random entropy in a reset secret.
const ResetSecretBytes = 32

// GenerateResetSecret creates a user-bound reset secret and its digest.
// The plaintext goes into the emailed link; only the digest is stored.
func GenerateResetSecret(userID uuid.UUID) (plaintext, digest string, err error) {
	buf := make([]byte, ResetSecretBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("read random bytes: %w", err)
	}

	plaintext = hex.EncodeToString(buf) + userID.String()
	return plaintext, DigestResetSecret(plaintext), nil
}

// DigestResetSecret returns the hex SHA-256 of a reset secret.
func DigestResetSecret(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
