package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/models"
)

// fakeScanStorage serves canned history entries
type fakeScanStorage struct {
	scans    []*models.ScanJob
	gotLimit int
}

func (f *fakeScanStorage) SaveScan(ctx context.Context, job *models.ScanJob) error {
	f.scans = append(f.scans, job)
	return nil
}

func (f *fakeScanStorage) GetScan(ctx context.Context, id string) (*models.ScanJob, error) {
	for _, job := range f.scans {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, fmt.Errorf("scan not found: %s", id)
}

func (f *fakeScanStorage) ListScans(ctx context.Context, limit int) ([]*models.ScanJob, error) {
	f.gotLimit = limit
	if limit > len(f.scans) {
		limit = len(f.scans)
	}
	return f.scans[:limit], nil
}

func seedStorage(n int) *fakeScanStorage {
	storage := &fakeScanStorage{}
	for i := 0; i < n; i++ {
		storage.scans = append(storage.scans, &models.ScanJob{
			ID:        fmt.Sprintf("scan_%d", i),
			Region:    "Lyon",
			Activity:  "bakery",
			Status:    models.ScanJobCompleted,
			StartedAt: time.Now().UTC(),
		})
	}
	return storage
}

func TestListScansReturnsHistory(t *testing.T) {
	handler := NewScansHandler(seedStorage(3), common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
	recorder := httptest.NewRecorder()

	handler.ListScansHandler(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Scans []models.ScanJob `json:"scans"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Len(t, resp.Scans, 3)
}

func TestListScansHonorsLimitParameter(t *testing.T) {
	storage := seedStorage(5)
	handler := NewScansHandler(storage, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scans?limit=2", nil)
	recorder := httptest.NewRecorder()

	handler.ListScansHandler(recorder, req)

	assert.Equal(t, 2, storage.gotLimit)
}

func TestGetScanByID(t *testing.T) {
	handler := NewScansHandler(seedStorage(2), common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scans/scan_1", nil)
	req.SetPathValue("id", "scan_1")
	recorder := httptest.NewRecorder()

	handler.GetScanHandler(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var job models.ScanJob
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &job))
	assert.Equal(t, "scan_1", job.ID)
}

func TestGetScanUnknownIDReturns404(t *testing.T) {
	handler := NewScansHandler(seedStorage(1), common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scans/scan_missing", nil)
	req.SetPathValue("id", "scan_missing")
	recorder := httptest.NewRecorder()

	handler.GetScanHandler(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestStatusHandlerReportsMissingSecrets(t *testing.T) {
	config := common.NewDefaultConfig()
	handler := NewStatusHandler(config, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	recorder := httptest.NewRecorder()

	handler.GetStatusHandler(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Status         string   `json:"status"`
		MissingSecrets []string `json:"missing_secrets"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.NotEmpty(t, resp.MissingSecrets)
}
