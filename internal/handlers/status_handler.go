package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	config    *common.Config
	logger    arbor.ILogger
	startedAt time.Time
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(config *common.Config, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:    config,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetStatusHandler handles GET /api/status. Reports build info and which
// required credentials are missing (names only, never values).
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	missing := h.config.MissingSecrets()
	status := "ok"
	if len(missing) > 0 {
		status = "degraded"
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":          status,
		"version":         common.Version,
		"build":           common.Build,
		"uptime":          time.Since(h.startedAt).Round(time.Second).String(),
		"missing_secrets": missing,
	})
}
