package interfaces

import (
	"context"

	"github.com/ternarybob/prospect/internal/models"
)

// ScanStorage persists scan job summaries for the history API
type ScanStorage interface {
	SaveScan(ctx context.Context, job *models.ScanJob) error
	GetScan(ctx context.Context, id string) (*models.ScanJob, error)
	ListScans(ctx context.Context, limit int) ([]*models.ScanJob, error)
}

// StorageManager provides access to the storage backends
type StorageManager interface {
	ScanStorage() ScanStorage
	Close() error
}
