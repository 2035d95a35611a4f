package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/interfaces"
)

const defaultScanListLimit = 50

// ScansHandler serves the persisted scan history
type ScansHandler struct {
	storage interfaces.ScanStorage
	logger  arbor.ILogger
}

// NewScansHandler creates a new ScansHandler
func NewScansHandler(storage interfaces.ScanStorage, logger arbor.ILogger) *ScansHandler {
	return &ScansHandler{
		storage: storage,
		logger:  logger,
	}
}

// ListScansHandler handles GET /api/scans. Results are sorted newest first;
// an optional `limit` query parameter caps the page size.
func (h *ScansHandler) ListScansHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := defaultScanListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	scans, err := h.storage.ListScans(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list scans")
		WriteError(w, http.StatusInternalServerError, "Failed to list scans")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scans": scans,
		"count": len(scans),
	})
}

// GetScanHandler handles GET /api/scans/{id}
func (h *ScansHandler) GetScanHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Scan ID is required")
		return
	}

	scan, err := h.storage.GetScan(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Scan not found")
		return
	}

	WriteJSON(w, http.StatusOK, scan)
}
