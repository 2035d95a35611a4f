package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
	"github.com/ternarybob/prospect/internal/services/llm"
)

// Service implements NormalizerService. The completion provider is treated as
// an untrusted data source: its output is parsed and schema-validated, and
// anything short of a fully valid record is rejected wholesale.
type Service struct {
	completer llm.Completer
	logger    arbor.ILogger
}

// NewService creates a new record normalizer backed by the given provider
func NewService(completer llm.Completer, logger arbor.ILogger) interfaces.NormalizerService {
	return &Service{
		completer: completer,
		logger:    logger,
	}
}

// Normalize converts a raw listing plus scraped contacts into a validated
// business record. Provider, parse, and validation failures are all returned
// as errors; the caller decides whether to drop the listing.
func (s *Service) Normalize(ctx context.Context, listing models.RawListing, contacts models.ScrapedContacts) (*models.BusinessRecord, error) {
	prompt, err := buildPrompt(listing, contacts)
	if err != nil {
		return nil, err
	}

	response, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("completion failed for %s: %w", listing.Name, err)
	}

	payload := extractJSON(response)

	var record models.BusinessRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		s.logger.Warn().
			Err(err).
			Str("place_id", listing.PlaceID).
			Str("provider", s.completer.Name()).
			Msg("Normalizer returned unparseable JSON")
		return nil, fmt.Errorf("failed to parse normalizer output for %s: %w", listing.Name, err)
	}

	if err := record.Validate(); err != nil {
		s.logger.Warn().
			Err(err).
			Str("place_id", listing.PlaceID).
			Str("provider", s.completer.Name()).
			Msg("Normalizer returned invalid record shape")
		return nil, fmt.Errorf("normalizer output failed validation for %s: %w", listing.Name, err)
	}

	return &record, nil
}

// extractJSON strips markdown code fences and surrounding prose, returning
// the innermost JSON object text
func extractJSON(response string) string {
	text := strings.TrimSpace(response)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Fall back to the outermost braces when prose surrounds the object
	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}

	return text
}
