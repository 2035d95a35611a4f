package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/models"
)

func testRecord() models.BusinessRecord {
	lat, lng := 45.76, 4.83
	phone := "+33472000000"
	website := "https://boulangerie.example"
	googleURL := "https://maps.google.com/?cid=123"
	rating := 4.5
	ratingsTotal := 120

	return models.BusinessRecord{
		Source:        models.RecordSource,
		CollectedAt:   "2026-08-30T10:00:00Z",
		RegionQuery:   "Lyon",
		ActivityQuery: "bakery",
		PlaceID:       "place_1",
		Name:          "Boulangerie du Centre",
		Categories:    []string{"bakery", "cafe"},
		AddressFull:   "12 Rue de la Paix, Lyon",
		AddressComponents: &models.AddressComponents{
			Country: "France",
			City:    "Lyon",
		},
		Location: &models.Location{Lat: &lat, Lng: &lng},
		PhoneE164:     &phone,
		Website:       &website,
		Emails:        []string{"contact@boulangerie.example", "sales@boulangerie.example"},
		Socials: models.Socials{
			Instagram: "https://instagram.com/boulangerie",
		},
		Rating:           &rating,
		UserRatingsTotal: &ratingsTotal,
		GoogleURL:        &googleURL,
	}
}

func TestRecordRowColumnOrder(t *testing.T) {
	row := recordRow(testRecord())

	require.Len(t, row, 16)
	assert.Equal(t, "2026-08-30T10:00:00Z", row[0])
	assert.Equal(t, "Lyon", row[1])
	assert.Equal(t, "bakery", row[2])
	assert.Equal(t, "Boulangerie du Centre", row[3])
	assert.Equal(t, "12 Rue de la Paix, Lyon", row[4])
	assert.Equal(t, "+33472000000", row[5])
	assert.Equal(t, "https://boulangerie.example", row[6])
	assert.Equal(t, "contact@boulangerie.example; sales@boulangerie.example", row[7])
	assert.Contains(t, row[8], "instagram.com/boulangerie")
	assert.Equal(t, "bakery; cafe", row[9])
	assert.Equal(t, "place_1", row[10])
	assert.Equal(t, 4.5, row[11])
	assert.Equal(t, 120, row[12])
	assert.Equal(t, 45.76, row[13])
	assert.Equal(t, 4.83, row[14])
	assert.Equal(t, "https://maps.google.com/?cid=123", row[15])
}

func TestRecordRowOptionalFieldsCollapseToEmpty(t *testing.T) {
	record := testRecord()
	record.PhoneE164 = nil
	record.Website = nil
	record.Rating = nil
	record.UserRatingsTotal = nil
	record.GoogleURL = nil
	record.Location = nil

	row := recordRow(record)

	assert.Equal(t, "", row[5])
	assert.Equal(t, "", row[6])
	assert.Equal(t, "", row[11])
	assert.Equal(t, "", row[12])
	assert.Nil(t, row[13])
	assert.Nil(t, row[14])
	assert.Equal(t, "", row[15])
}

func TestAppendSendsOneRowPerRecord(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody map[string][][]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"updates":{"updatedRows":2}}`))
	}))
	defer server.Close()

	service := &Service{
		config: &common.SheetsConfig{
			SpreadsheetID: "sheet-123",
			SheetRange:    "Sheet1!A:P",
		},
		logger:     common.GetLogger(),
		httpClient: server.Client(),
		baseURL:    server.URL,
	}

	err := service.Append(context.Background(), []models.BusinessRecord{testRecord(), testRecord()})

	require.NoError(t, err)
	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/Sheet1!A:P:append", gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=RAW")
	assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")
	require.Len(t, gotBody["values"], 2)
	assert.Len(t, gotBody["values"][0], 16)
}

func TestAppendRejectsEmptyBatch(t *testing.T) {
	service := &Service{
		config: &common.SheetsConfig{SpreadsheetID: "sheet-123", SheetRange: "Sheet1!A:P"},
		logger: common.GetLogger(),
	}

	err := service.Append(context.Background(), nil)

	assert.Error(t, err)
}

func TestAppendSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	service := &Service{
		config:     &common.SheetsConfig{SpreadsheetID: "sheet-123", SheetRange: "Sheet1!A:P"},
		logger:     common.GetLogger(),
		httpClient: server.Client(),
		baseURL:    server.URL,
	}

	err := service.Append(context.Background(), []models.BusinessRecord{testRecord()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestNewServiceRequiresCredentials(t *testing.T) {
	_, err := NewService(&common.SheetsConfig{}, common.GetLogger())
	assert.Error(t, err)

	_, err = NewService(&common.SheetsConfig{
		ClientEmail: "svc@test.iam.gserviceaccount.com",
		PrivateKey:  "key",
	}, common.GetLogger())
	assert.Error(t, err)
}

func TestSheetURL(t *testing.T) {
	service := &Service{config: &common.SheetsConfig{SpreadsheetID: "sheet-123"}}

	assert.Equal(t, "https://docs.google.com/spreadsheets/d/sheet-123/edit", service.SheetURL())
}
