// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Request Metrics

WithMetrics observes the handler duration under the matched route pattern:

	mux.HandleFunc("GET /blocks/{id}/export", middleware.WithMetrics(rec, handler))

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Learner-Token.

# Response Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.XMLResponse(w, http.StatusOK, doc)
	middleware.HTMLResponse(w, http.StatusOK, fragment)

# Request Bodies

ReadBody reads at most MaxBodyBytes. Command bodies are passed to the
poll core as raw bytes, since decoding depends on the command name.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP.
*/
package middleware
