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
	"github.com/danielhkuo/pollxblock/metrics"
	"github.com/danielhkuo/pollxblock/middleware"
	"github.com/danielhkuo/pollxblock/xblock"
)

type CommandHandler struct {
	store   *db.BlockStore
	cfg     cliparse.Config
	metrics *metrics.Recorder
}

func NewCommandHandler(conn *sql.DB, cfg cliparse.Config, rec *metrics.Recorder) *CommandHandler {
	return &CommandHandler{store: db.NewBlockStore(conn, cfg.DatabaseType), cfg: cfg, metrics: rec}
}

// learnerCommands change the caller's own vote and need a learner token
var learnerCommands = map[string]bool{
	xblock.CmdAnswerPoll: true,
	xblock.CmdResetPoll:  true,
}

// HandleCommand handles POST /blocks/{id}/handler/{command}
// The response is always the core's JSON body with status 200, including
// {"error": "Unknown Command!"} for rejected or unknown commands.
// answer_poll and reset_poll require X-Learner-Token; get_state reports the
// learner's vote when the header is present. save_edit requires the admin key.
func (h *CommandHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	blockID := r.PathValue("id")
	command := r.PathValue("command")
	learner := r.Header.Get(auth.LearnerTokenHeader)

	if command == xblock.CmdSaveEdit && !requireAdmin(w, r, blockID, h.cfg.AdminKeySalt) {
		return
	}
	if learnerCommands[command] && learner == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Learner-Token header required")
		return
	}

	body, err := middleware.ReadBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var res xblock.Result
	err = h.store.Update(r.Context(), blockID, learner, func(state *xblock.PollState) (bool, error) {
		res = xblock.Handle(state, command, body)
		return res.Changed, nil
	})
	if !writeStoreError(w, err, blockID) {
		return
	}

	h.metrics.ObserveCommand(command, xblock.KnownCommand(command), res.Err != nil)

	if res.Err != nil {
		slog.Info("command rejected", "block_id", blockID, "command", command, "reason", res.Err)
	} else if command == xblock.CmdAnswerPoll {
		h.metrics.IncVote()
		slog.Info("vote recorded", "block_id", blockID)
	}

	middleware.JSONResponse(w, http.StatusOK, res.Response)
}
