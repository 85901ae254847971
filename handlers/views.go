// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollxblock/auth"
	"github.com/danielhkuo/pollxblock/cliparse"
	"github.com/danielhkuo/pollxblock/db"
	"github.com/danielhkuo/pollxblock/middleware"
	"github.com/danielhkuo/pollxblock/render"
)

// InitHeader names the JS function that binds a rendered fragment
const InitHeader = "X-Fragment-Init"

type ViewHandler struct {
	store *db.BlockStore
	cfg   cliparse.Config
}

func NewViewHandler(conn *sql.DB, cfg cliparse.Config) *ViewHandler {
	return &ViewHandler{store: db.NewBlockStore(conn, cfg.DatabaseType), cfg: cfg}
}

// StudentView handles GET /blocks/{id}/student_view
// With X-Learner-Token the fragment shows that learner's vote and results.
func (h *ViewHandler) StudentView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, render.ModeStudent, r.Header.Get(auth.LearnerTokenHeader))
}

// StudioView handles GET /blocks/{id}/studio_view (admin only)
func (h *ViewHandler) StudioView(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, r.PathValue("id"), h.cfg.AdminKeySalt) {
		return
	}
	h.render(w, r, render.ModeStudio, "")
}

func (h *ViewHandler) render(w http.ResponseWriter, r *http.Request, mode render.Mode, learner string) {
	blockID := r.PathValue("id")

	state, ok := loadBlock(w, r, h.store, blockID, learner)
	if !ok {
		return
	}

	frag, err := render.Render(state, mode)
	if err != nil {
		slog.Error("failed to render block", "error", err, "block_id", blockID, "mode", mode)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render block")
		return
	}

	w.Header().Set(InitHeader, frag.InitFunction)
	middleware.HTMLResponse(w, http.StatusOK, frag.Content)
}
