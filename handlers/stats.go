// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/office-pulse/cliparse"
	"github.com/danielhkuo/office-pulse/db"
	"github.com/danielhkuo/office-pulse/middleware"
	"github.com/danielhkuo/office-pulse/models"
)

// StatsWindow is how far back GET /stats looks
const StatsWindow = 24 * time.Hour

type StatsHandler struct {
	ledger *db.Ledger
	cfg    cliparse.Config
	now    func() time.Time
}

func NewStatsHandler(conn *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{ledger: db.NewLedger(conn), cfg: cfg, now: time.Now}
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	since := h.now().Add(-StatsWindow).UTC()

	outcomes, err := h.ledger.Stats(r.Context(), since)
	if err != nil {
		slog.Error("failed to query stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		Since:    since,
		Outcomes: outcomes,
	})
}
