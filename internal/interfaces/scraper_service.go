package interfaces

import (
	"context"

	"github.com/ternarybob/prospect/internal/models"
)

// ScraperService extracts contact details from a business website.
// All failure modes resolve to the empty result; Scrape never returns an error.
type ScraperService interface {
	Scrape(ctx context.Context, websiteURL string) models.ScrapedContacts
}
