package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey generates a random API key with the given prefix.
// Format: prefix_randomhex
// Example: nt_live_a1b2c3d4e5f6...
func GenerateAPIKey(prefix string) (string, error) {
	b := make([]byte, 32) // 64 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateLiveKey generates a live terminal key: nt_live_xxx
func GenerateLiveKey() (string, error) {
	return GenerateAPIKey("nt_live")
}

// GenerateTrainingKey generates a training terminal key: nt_train_xxx
func GenerateTrainingKey() (string, error) {
	return GenerateAPIKey("nt_train")
}

// GenerateWebhookSecret generates a webhook secret: nt_secret_xxx
func GenerateWebhookSecret() (string, error) {
	return GenerateAPIKey("nt_secret")
}
