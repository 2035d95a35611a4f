package interfaces

import (
	"context"

	"github.com/ternarybob/prospect/internal/models"
)

// SheetsService appends validated records to the destination spreadsheet.
// Append performs no retry; auth and write errors are returned to the caller.
// Re-invoking with an overlapping record set produces duplicate rows.
type SheetsService interface {
	Append(ctx context.Context, records []models.BusinessRecord) error

	// SheetURL returns the browser URL of the destination spreadsheet
	SheetURL() string
}
