package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ScanRequest is the inbound request that starts a scan
type ScanRequest struct {
	Region   string `json:"region" validate:"required"`
	Activity string `json:"activity" validate:"required"`
}

var requestValidator = validator.New()

// Validate checks that both query parameters are non-empty
func (r *ScanRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Scan event statuses as they appear on the wire
const (
	ScanStatusStarted   = "started"
	ScanStatusProgress  = "progress"
	ScanStatusCompleted = "completed"
	ScanStatusError     = "error"
)

// ProgressEvent is one unit of the ordered status stream delivered to the
// caller. Events are append-only and never retracted or revised.
type ProgressEvent struct {
	Status         string      `json:"status"`
	JobID          string      `json:"jobId,omitempty"`
	Message        string      `json:"message"`
	Progress       float64     `json:"progress,omitempty"`
	FoundCount     *int        `json:"foundCount,omitempty"`
	ProcessedCount *int        `json:"processedCount,omitempty"`
	SheetURL       string      `json:"sheetUrl,omitempty"`
	Details        interface{} `json:"details,omitempty"`

	// Timestamp is set when the event is emitted; not part of the wire frame
	Timestamp time.Time `json:"-"`
}

// Scan job terminal states
const (
	ScanJobRunning   = "running"
	ScanJobCompleted = "completed"
	ScanJobFailed    = "failed"
)

// ScanJob is the persisted summary of one scan, kept for the history API.
// In-flight progress is never persisted; only the outcome is.
type ScanJob struct {
	ID             string    `json:"id" badgerhold:"key"`
	Region         string    `json:"region"`
	Activity       string    `json:"activity"`
	Status         string    `json:"status"`
	FoundCount     int       `json:"found_count"`
	ProcessedCount int       `json:"processed_count"`
	RecordCount    int       `json:"record_count"` // rows appended to the sheet
	SheetURL       string    `json:"sheet_url,omitempty"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at,omitempty"`
}
