package models

// RawListing is one candidate business as returned by the search provider.
// Immutable once received; consumed once by the per-listing processing step.
type RawListing struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Website          string   `json:"website,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
}
