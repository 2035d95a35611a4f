package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/prospect/internal/models"
)

// recordSchema describes the target shape embedded in the prompt. It mirrors
// models.BusinessRecord field for field so the validated struct and the
// instruction never drift apart silently.
const recordSchema = `{
  "source": "rapidapi-local-business-data" (fixed literal, required),
  "collected_at": string, ISO-8601 timestamp (required),
  "region_query": string (required),
  "activity_query": string (required),
  "place_id": string (required),
  "name": string (required),
  "categories": array of strings (required, may be empty),
  "description": string or null,
  "address_full": string (required),
  "address_components": { "country", "region", "city", "street", "house", "postal_code": all optional strings } (object required, may be empty),
  "location": { "lat": number, "lng": number } (both required),
  "phone_e164": string in E.164 form (e.g. "+375291234567") or null,
  "website": valid URL string or null,
  "emails": array of syntactically valid email addresses (required, may be empty),
  "socials": { "facebook", "instagram", "x", "telegram", "vk", "linkedin", "youtube", "tiktok": optional URL strings, "other": optional array of strings },
  "rating": number or null,
  "user_ratings_total": integer or null,
  "opening_hours_raw": array of strings or null,
  "price_level": integer 0-4 or null,
  "google_url": valid URL string or null,
  "notes": string or null
}`

// rawInput is the structured payload embedded in the prompt: the raw listing
// merged with whatever contacts the extractor produced (possibly empty)
type rawInput struct {
	models.RawListing
	Emails  []string          `json:"emails"`
	Socials map[string]string `json:"socials"`
}

// buildPrompt produces the fixed normalization instruction for one listing
func buildPrompt(listing models.RawListing, contacts models.ScrapedContacts) (string, error) {
	input := rawInput{
		RawListing: listing,
		Emails:     contacts.Emails,
		Socials:    contacts.Socials,
	}

	rawJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal raw listing: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert in business data normalization. Take the raw data about a company and convert it to a strict JSON format matching the provided schema.

Normalization rules:
1. Never invent data. If a field is absent from the raw data and cannot be reliably derived, set it to null or omit it if optional.
2. Company name: strip extraneous symbols and legal-form noise, unify casing.
3. Categories: map raw "types" to broader, unified categories.
4. Address: try to decompose the full address into components (country, region, city, street, house, postal code). Leave components null when unsure.
5. Phone: convert to E.164 format (e.g. "+375291234567").
6. Emails and socials: deduplicate and validate.
7. Return ONLY a JSON object, with no additional text or explanation.

Raw company data:
%s

Required JSON schema:
%s

Return ONLY the JSON object matching this schema.`, string(rawJSON), recordSchema)

	return prompt, nil
}
