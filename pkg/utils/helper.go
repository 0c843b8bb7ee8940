package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ParseInt converts a string to int with a default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// GenerateConfirmationCode returns a 128-bit random code, hex encoded.
// crypto/rand only; the code stands in for a password.
func GenerateConfirmationCode() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return hex.EncodeToString(b), nil
}
