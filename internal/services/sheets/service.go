package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const spreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// Service implements SheetsService: it appends validated records as rows to
// a Google Sheet using a service-account identity. Append performs no retry
// and offers no idempotency; disposition of failures is the caller's.
type Service struct {
	config     *common.SheetsConfig
	logger     arbor.ILogger
	httpClient *http.Client
	baseURL    string
}

// NewService creates a sheets persister authenticated via service-account JWT
func NewService(config *common.SheetsConfig, logger arbor.ILogger) (interfaces.SheetsService, error) {
	if config.ClientEmail == "" || config.PrivateKey == "" {
		return nil, fmt.Errorf("sheets service account credentials are required")
	}
	if config.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets spreadsheet_id is required")
	}

	// Keys delivered through env vars carry escaped newlines
	privateKey := strings.ReplaceAll(config.PrivateKey, `\n`, "\n")

	jwtConfig := &jwt.Config{
		Email:      config.ClientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{spreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	return &Service{
		config:     config,
		logger:     logger,
		httpClient: jwtConfig.Client(context.Background()),
		baseURL:    "https://sheets.googleapis.com",
	}, nil
}

// SheetURL returns the browser URL of the destination spreadsheet
func (s *Service) SheetURL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", s.config.SpreadsheetID)
}

// Append writes one row per record to the destination sheet in fixed column
// order. Any auth or write error is returned; no rows are retried here.
func (s *Service) Append(ctx context.Context, records []models.BusinessRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("cannot append an empty record batch")
	}

	values := make([][]interface{}, len(records))
	for i, record := range records {
		values[i] = recordRow(record)
	}

	body, err := json.Marshal(map[string]interface{}{"values": values})
	if err != nil {
		return fmt.Errorf("failed to marshal sheet values: %w", err)
	}

	appendURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		s.baseURL,
		url.PathEscape(s.config.SpreadsheetID),
		url.PathEscape(s.config.SheetRange),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, appendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sheets API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sheets API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Info().
		Int("rows", len(records)).
		Str("spreadsheet_id", s.config.SpreadsheetID).
		Msg("Appended rows to Google Sheet")

	return nil
}

// recordRow maps a record to the fixed 16-column sheet layout. List-valued
// fields are joined with "; " and the socials mapping is serialized as JSON.
func recordRow(record models.BusinessRecord) []interface{} {
	socialsJSON, err := json.Marshal(record.Socials)
	if err != nil {
		socialsJSON = []byte("{}")
	}

	var lat, lng interface{}
	if record.Location != nil {
		if record.Location.Lat != nil {
			lat = *record.Location.Lat
		}
		if record.Location.Lng != nil {
			lng = *record.Location.Lng
		}
	}

	return []interface{}{
		record.CollectedAt,
		record.RegionQuery,
		record.ActivityQuery,
		record.Name,
		record.AddressFull,
		stringOrEmpty(record.PhoneE164),
		stringOrEmpty(record.Website),
		strings.Join(record.Emails, "; "),
		string(socialsJSON),
		strings.Join(record.Categories, "; "),
		record.PlaceID,
		floatOrEmpty(record.Rating),
		intOrEmpty(record.UserRatingsTotal),
		lat,
		lng,
		stringOrEmpty(record.GoogleURL),
	}
}

func stringOrEmpty(value *string) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func floatOrEmpty(value *float64) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func intOrEmpty(value *int) interface{} {
	if value == nil {
		return ""
	}
	return *value
}
