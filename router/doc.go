// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the poll block runtime.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, prometheus.NewRegistry())

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Block lifecycle (export and delete require X-Admin-Key):

	POST   /blocks             - Create empty block
	POST   /blocks/import      - Create block from pollxblock XML
	GET    /blocks/{id}/export - Export pollxblock XML
	DELETE /blocks/{id}        - Remove block

Learners:

	POST /blocks/{id}/learners - Issue a learner token

Commands (save_edit requires X-Admin-Key; answer_poll and reset_poll
require X-Learner-Token):

	POST /blocks/{id}/handler/get_state
	POST /blocks/{id}/handler/answer_poll
	POST /blocks/{id}/handler/reset_poll
	POST /blocks/{id}/handler/save_edit

Views (studio_view requires X-Admin-Key):

	GET /blocks/{id}/student_view
	GET /blocks/{id}/studio_view

# Handler Initialization

The router creates handler instances with dependency injection:

	blockHandler := handlers.NewBlockHandler(db, cfg, rec)
	learnerHandler := handlers.NewLearnerHandler(db, cfg, rec)
	commandHandler := handlers.NewCommandHandler(db, cfg, rec)
	viewHandler := handlers.NewViewHandler(db, cfg)

Every route except health, metrics and root is wrapped with request
logging and the request duration histogram.
*/
package router
