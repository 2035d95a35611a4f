package interfaces

import (
	"context"

	"github.com/ternarybob/prospect/internal/models"
)

// NormalizerService converts a raw listing plus scraped contacts into a
// schema-validated business record via an LLM call. Any provider, parse, or
// validation failure is returned as an error; no partial record is ever
// produced.
type NormalizerService interface {
	Normalize(ctx context.Context, listing models.RawListing, contacts models.ScrapedContacts) (*models.BusinessRecord, error)
}
