// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollxblock/auth"
	"github.com/danielhkuo/pollxblock/cliparse"
	"github.com/danielhkuo/pollxblock/db"
	"github.com/danielhkuo/pollxblock/metrics"
	"github.com/danielhkuo/pollxblock/middleware"
	"github.com/danielhkuo/pollxblock/models"
)

type LearnerHandler struct {
	store   *db.BlockStore
	metrics *metrics.Recorder
}

func NewLearnerHandler(conn *sql.DB, cfg cliparse.Config, rec *metrics.Recorder) *LearnerHandler {
	return &LearnerHandler{store: db.NewBlockStore(conn, cfg.DatabaseType), metrics: rec}
}

// Register handles POST /blocks/{id}/learners
// Issues a learner token for the block. Each token holds one vote.
func (h *LearnerHandler) Register(w http.ResponseWriter, r *http.Request) {
	blockID := r.PathValue("id")

	token, err := auth.GenerateLearnerToken()
	if err != nil {
		slog.Error("failed to generate learner token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register learner")
		return
	}

	err = h.store.AddLearner(r.Context(), blockID, token)
	if errors.Is(err, db.ErrBlockNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Block not found")
		return
	}
	if err != nil {
		slog.Error("failed to register learner", "error", err, "block_id", blockID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register learner")
		return
	}

	h.metrics.IncLearner()
	slog.Info("learner registered", "block_id", blockID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterLearnerResponse{
		LearnerToken: token,
	})
}
