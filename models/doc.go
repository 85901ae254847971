// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the JSON types of the block host.

Command request and response bodies belong to the poll core and live in
package xblock. This package only holds what the host adds around them:

  - CreateBlockResponse: block_id, admin_key
  - RegisterLearnerResponse: learner_token
  - ErrorResponse: error, message
*/
package models
