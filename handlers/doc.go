// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the poll block runtime.

# Handler Types

Each handler is a struct with database and config dependencies:

  - BlockHandler: block lifecycle and XML import/export
  - LearnerHandler: learner token registration
  - CommandHandler: the four poll commands
  - ViewHandler: student and studio HTML fragments

Handlers are created via constructor functions that accept *sql.DB and Config:

	blockHandler := handlers.NewBlockHandler(db, cfg, rec)

# Block Lifecycle

	POST   /blocks             → CreateBlock (empty block, returns admin_key)
	POST   /blocks/import      → ImportBlock (pollxblock XML body)
	GET    /blocks/{id}/export → ExportBlock
	DELETE /blocks/{id}        → DeleteBlock

Malformed imports answer 400 with the fixed message in the "message" field,
for example:

	Every pollxblock must contain a "question" element.

# Learners

	POST /blocks/{id}/learners → Register (returns learner_token)

Each learner votes once per block. poll_answer and voted are stored per
learner; the tally is shared.

# Commands

	POST /blocks/{id}/handler/{command}

The command is one of get_state, answer_poll, reset_poll, save_edit. The body
is passed to xblock.Handle inside a store transaction and its JSON response
is returned with status 200. answer_poll and reset_poll require the
X-Learner-Token header (401 without it, 403 for a token not registered for
the block); get_state reports that learner's answer when the header is
sent. Rejected and unknown commands both answer:

	{"error": "Unknown Command!"}

# Views

	GET /blocks/{id}/student_view
	GET /blocks/{id}/studio_view

student_view renders for the learner named by X-Learner-Token, if any.
The X-Fragment-Init response header names the JS initializer.

# Admin Key

Export, delete, studio_view and save_edit require the X-Admin-Key header
returned when the block was created.
*/
package handlers
