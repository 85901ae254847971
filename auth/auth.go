// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// AdminKeyHeader carries the key authorizing studio operations on a block
	AdminKeyHeader = "X-Admin-Key"

	// LearnerTokenHeader identifies the learner a command or view is for
	LearnerTokenHeader = "X-Learner-Token"
)

var (
	ErrMissingAdminKey = errors.New("missing admin key")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// GenerateAdminKey creates an HMAC-based admin key for a block
// This is deterministic and verifiable
func GenerateAdminKey(blockID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(blockID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the block
func ValidateAdminKey(blockID, adminKey, salt string) error {
	expected := GenerateAdminKey(blockID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// RequireAdmin validates the X-Admin-Key header of r for the block
func RequireAdmin(r *http.Request, blockID, salt string) error {
	key := r.Header.Get(AdminKeyHeader)
	if key == "" {
		return ErrMissingAdminKey
	}
	return ValidateAdminKey(blockID, key, salt)
}

// GenerateLearnerToken creates a random secure token for a learner
// The token is registered per block and keys the learner's own vote
func GenerateLearnerToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate learner token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
