package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Scan pipeline
	mux.HandleFunc("/api/scan", s.app.ScanHandler.StartScanHandler) // POST - start scan, SSE stream

	// API routes - Scan history
	mux.HandleFunc("/api/scans", s.app.ScansHandler.ListScansHandler)    // GET - list scans
	mux.HandleFunc("/api/scans/{id}", s.app.ScansHandler.GetScanHandler) // GET - scan by ID

	// API routes - Application status
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler) // GET - application status

	return mux
}
