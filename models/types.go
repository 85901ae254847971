// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Host runtime response types

type CreateBlockResponse struct {
	BlockID  string `json:"block_id"`
	AdminKey string `json:"admin_key"`
}

type RegisterLearnerResponse struct {
	LearnerToken string `json:"learner_token"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
