package search

import (
	"github.com/ternarybob/prospect/internal/models"
)

// searchResponse mirrors the RapidAPI payload. The provider returns the
// business array under either "data" or "results" depending on plan.
type searchResponse struct {
	Data    []models.RawListing `json:"data"`
	Results []models.RawListing `json:"results"`
}

func (r *searchResponse) listings() []models.RawListing {
	if len(r.Data) > 0 {
		return r.Data
	}
	if len(r.Results) > 0 {
		return r.Results
	}
	return []models.RawListing{}
}
