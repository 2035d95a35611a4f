package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ScanStorage implements the ScanStorage interface for Badger
type ScanStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewScanStorage creates a new ScanStorage instance
func NewScanStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ScanStorage {
	return &ScanStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ScanStorage) SaveScan(ctx context.Context, job *models.ScanJob) error {
	if job.ID == "" {
		return fmt.Errorf("scan ID is required")
	}

	if err := s.db.Store().Upsert(job.ID, job); err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}
	return nil
}

func (s *ScanStorage) GetScan(ctx context.Context, id string) (*models.ScanJob, error) {
	var job models.ScanJob
	if err := s.db.Store().Get(id, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("scan not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return &job, nil
}

func (s *ScanStorage) ListScans(ctx context.Context, limit int) ([]*models.ScanJob, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var jobs []models.ScanJob
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	result := make([]*models.ScanJob, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result, nil
}
