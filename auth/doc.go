// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(blockID, salt)
	err := auth.ValidateAdminKey(blockID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same block ID and salt always produce the same key. This allows validation
without storing the key in the database.

# Requests

Studio operations (export, delete, studio view, save_edit) send the key in
the X-Admin-Key header:

	if err := auth.RequireAdmin(r, blockID, cfg.AdminKeySalt); err != nil {
		// 401 for ErrMissingAdminKey, 403 for ErrInvalidAdminKey
	}

# Learner Tokens

Learner tokens are random, URL-safe and stored per block:

	token, err := auth.GenerateLearnerToken()

A learner registers once per block and sends the token in the
X-Learner-Token header. The vote fields (poll_answer, voted) are kept per
token; the tally is shared by all learners of the block.
*/
package auth
