package interfaces

import (
	"context"

	"github.com/ternarybob/prospect/internal/models"
)

// SearchService finds candidate business listings for a region/activity pair.
// A returned error is fatal to the scan that issued the search.
type SearchService interface {
	Search(ctx context.Context, region, activity string) ([]models.RawListing, error)
}
