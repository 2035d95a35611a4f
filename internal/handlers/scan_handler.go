package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/models"
)

// ScanRunner starts a scan and returns its ordered progress event stream
type ScanRunner interface {
	Scan(ctx context.Context, req *models.ScanRequest) <-chan models.ProgressEvent
}

// ScanHandler handles POST /api/scan and streams progress over SSE
type ScanHandler struct {
	scanService ScanRunner
	logger      arbor.ILogger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanService ScanRunner, logger arbor.ILogger) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
		logger:      logger,
	}
}

// StartScanHandler handles POST /api/scan. The response body is a
// Server-Sent Events stream; each pipeline event is one `message` frame
// with a JSON payload. The connection stays open until the scan reaches a
// terminal event or the client disconnects.
func (h *ScanHandler) StartScanHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Flush headers immediately to trigger the browser's EventSource.onopen
	flusher.Flush()

	// The stream is already open, so a body that does not parse is reported
	// the same way every other scan failure is: one terminal error event
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("Scan request body did not parse")
		writeSSEEvent(w, flusher, models.ProgressEvent{
			Status:  models.ScanStatusError,
			Message: "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	h.logger.Info().
		Str("region", req.Region).
		Str("activity", req.Activity).
		Msg("Scan stream opened")

	events := h.scanService.Scan(r.Context(), &req)

	for event := range events {
		if err := writeSSEEvent(w, flusher, event); err != nil {
			// Client gone; the scan goroutine stops via r.Context()
			h.logger.Debug().Err(err).Msg("Scan stream client disconnected")
			return
		}
	}

	h.logger.Debug().Msg("Scan stream closed")
}

// writeSSEEvent writes one SSE frame: `event: message`, a `data:` line with
// the JSON payload, and a blank line
func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event models.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload); err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
