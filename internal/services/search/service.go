package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
)

// Service implements SearchService against the RapidAPI local-business-data API
type Service struct {
	config     *common.SearchConfig
	logger     arbor.ILogger
	httpClient *http.Client
}

// NewService creates a new search service instance
func NewService(config *common.SearchConfig, logger arbor.ILogger) interfaces.SearchService {
	return &Service{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Search performs a local business search for the region/activity pair.
// Any transport, status, or decode failure is returned to the caller and is
// fatal to the scan that issued it.
func (s *Service) Search(ctx context.Context, region, activity string) ([]models.RawListing, error) {
	params := url.Values{}
	params.Set("query", activity)
	params.Set("location", region)

	fullURL := fmt.Sprintf("%s/search?%s", s.config.BaseURL, params.Encode())

	// Redact API key in logs
	s.logger.Debug().
		Str("url", fullURL).
		Str("host", s.config.Host).
		Msg("Calling local business search API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", s.config.APIKey)
	req.Header.Set("X-RapidAPI-Host", s.config.Host)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	listings := apiResp.listings()

	samplePlaces := []string{}
	for i, listing := range listings {
		if i < 3 {
			samplePlaces = append(samplePlaces, listing.Name)
		}
	}

	s.logger.Info().
		Str("region", region).
		Str("activity", activity).
		Int("results_count", len(listings)).
		Strs("sample_places", samplePlaces).
		Msg("Local business search completed")

	return listings, nil
}
