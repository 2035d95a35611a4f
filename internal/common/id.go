package common

import (
	"github.com/google/uuid"
)

// NewScanID generates a unique scan job ID with the "scan_" prefix
// Format: scan_<uuid>
func NewScanID() string {
	return "scan_" + uuid.New().String()
}
