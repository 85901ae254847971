// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
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
	"github.com/danielhkuo/pollxblock/xblock"
)

type BlockHandler struct {
	store   *db.BlockStore
	cfg     cliparse.Config
	metrics *metrics.Recorder
}

func NewBlockHandler(conn *sql.DB, cfg cliparse.Config, rec *metrics.Recorder) *BlockHandler {
	return &BlockHandler{store: db.NewBlockStore(conn, cfg.DatabaseType), cfg: cfg, metrics: rec}
}

// CreateBlock handles POST /blocks
// The new block has every field at its zero value
func (h *BlockHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	blockID, err := h.store.Create(r.Context(), xblock.PollState{})
	if err != nil {
		slog.Error("failed to create block", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create block")
		return
	}

	slog.Info("block created", "block_id", blockID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateBlockResponse{
		BlockID:  blockID,
		AdminKey: auth.GenerateAdminKey(blockID, h.cfg.AdminKeySalt),
	})
}

// ImportBlock handles POST /blocks/import
// The body is a pollxblock XML document
func (h *BlockHandler) ImportBlock(w http.ResponseWriter, r *http.Request) {
	body, err := middleware.ReadBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := xblock.ParseXMLReader(bytes.NewReader(body))
	if err != nil {
		var malformed *xblock.MalformedPollXMLError
		if errors.As(err, &malformed) {
			h.metrics.ObserveImport(metrics.ImportMalformed)
			middleware.ErrorResponse(w, http.StatusBadRequest, malformed.Error())
			return
		}
		slog.Warn("rejected XML import", "error", err)
		h.metrics.ObserveImport(metrics.ImportInvalid)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid XML")
		return
	}

	blockID, err := h.store.Create(r.Context(), state)
	if err != nil {
		slog.Error("failed to store imported block", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create block")
		return
	}

	h.metrics.ObserveImport(metrics.ImportOK)
	slog.Info("block imported", "block_id", blockID, "answers", len(state.Answers))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateBlockResponse{
		BlockID:  blockID,
		AdminKey: auth.GenerateAdminKey(blockID, h.cfg.AdminKeySalt),
	})
}

// ExportBlock handles GET /blocks/{id}/export (admin only)
func (h *BlockHandler) ExportBlock(w http.ResponseWriter, r *http.Request) {
	blockID := r.PathValue("id")
	if !requireAdmin(w, r, blockID, h.cfg.AdminKeySalt) {
		return
	}

	state, ok := loadBlock(w, r, h.store, blockID, "")
	if !ok {
		return
	}

	out, err := xblock.ExportXMLString(state)
	if err != nil {
		slog.Error("failed to export block", "error", err, "block_id", blockID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export block")
		return
	}

	middleware.XMLResponse(w, http.StatusOK, out)
}

// DeleteBlock handles DELETE /blocks/{id} (admin only)
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID := r.PathValue("id")
	if !requireAdmin(w, r, blockID, h.cfg.AdminKeySalt) {
		return
	}

	err := h.store.Delete(r.Context(), blockID)
	if errors.Is(err, db.ErrBlockNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Block not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete block", "error", err, "block_id", blockID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("block deleted", "block_id", blockID)
	w.WriteHeader(http.StatusNoContent)
}

// requireAdmin writes 401/403 and returns false unless the request carries
// the block's admin key
func requireAdmin(w http.ResponseWriter, r *http.Request, blockID, salt string) bool {
	err := auth.RequireAdmin(r, blockID, salt)
	switch {
	case err == nil:
		return true
	case errors.Is(err, auth.ErrMissingAdminKey):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Admin-Key header required")
	default:
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid admin key")
	}
	return false
}

// loadBlock fetches a block as seen by learner (empty for none), writing
// 404/403/500 on failure
func loadBlock(w http.ResponseWriter, r *http.Request, store *db.BlockStore, blockID, learner string) (xblock.PollState, bool) {
	state, err := store.GetForLearner(r.Context(), blockID, learner)
	if !writeStoreError(w, err, blockID) {
		return xblock.PollState{}, false
	}
	return state, true
}

// writeStoreError writes the response for a failed store call and reports
// whether err was nil
func writeStoreError(w http.ResponseWriter, err error, blockID string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, db.ErrBlockNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Block not found")
	case errors.Is(err, db.ErrLearnerNotFound):
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid learner token for this block")
	default:
		slog.Error("block store failed", "error", err, "block_id", blockID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
	return false
}
