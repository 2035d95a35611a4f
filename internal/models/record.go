package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RecordSource is the fixed source tag stamped on every business record
const RecordSource = "rapidapi-local-business-data"

// AddressComponents is the structured decomposition of a full address.
// All sub-fields are optional; the normalizer leaves what it cannot parse empty.
type AddressComponents struct {
	Country    string `json:"country,omitempty"`
	Region     string `json:"region,omitempty"`
	City       string `json:"city,omitempty"`
	Street     string `json:"street,omitempty"`
	House      string `json:"house,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Location is a geographic coordinate pair. Both coordinates are required;
// pointers distinguish an absent coordinate from a legitimate zero.
type Location struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// Socials holds at most one profile URL per known platform. Other collects
// links the normalizer kept but could not attribute to a known platform.
type Socials struct {
	Facebook  string   `json:"facebook,omitempty"`
	Instagram string   `json:"instagram,omitempty"`
	X         string   `json:"x,omitempty"`
	Telegram  string   `json:"telegram,omitempty"`
	VK        string   `json:"vk,omitempty"`
	LinkedIn  string   `json:"linkedin,omitempty"`
	YouTube   string   `json:"youtube,omitempty"`
	TikTok    string   `json:"tiktok,omitempty"`
	Other     []string `json:"other,omitempty"`
}

// BusinessRecord is the canonical, schema-validated business record.
//
// A value is a BusinessRecord only if Validate passes; partial or malformed
// normalizer output is rejected wholesale. The source tag, collection
// timestamp, and query echo fields are overwritten by the orchestrator after
// validation, so they are checked for presence only.
type BusinessRecord struct {
	Source        string `json:"source" validate:"required,eq=rapidapi-local-business-data"`
	CollectedAt   string `json:"collected_at" validate:"required"`
	RegionQuery   string `json:"region_query" validate:"required"`
	ActivityQuery string `json:"activity_query" validate:"required"`

	PlaceID           string             `json:"place_id" validate:"required"`
	Name              string             `json:"name" validate:"required"`
	Categories        []string           `json:"categories"`
	Description       *string            `json:"description,omitempty"`
	AddressFull       string             `json:"address_full" validate:"required"`
	AddressComponents *AddressComponents `json:"address_components" validate:"required"`
	Location          *Location          `json:"location" validate:"required"`
	PhoneE164         *string           `json:"phone_e164,omitempty" validate:"omitempty,e164"`
	Website           *string           `json:"website,omitempty" validate:"omitempty,url"`
	Emails            []string          `json:"emails" validate:"dive,email"`
	Socials           Socials           `json:"socials"`

	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	OpeningHoursRaw  []string `json:"opening_hours_raw,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty" validate:"omitempty,gte=0,lte=4"`
	GoogleURL        *string  `json:"google_url,omitempty" validate:"omitempty,url"`
	Notes            *string  `json:"notes,omitempty"`
}

var recordValidator = validator.New()

// Validate checks the record against the full schema. Any failure means the
// record is rejected wholesale; no partial record is ever accepted.
//
// The list fields must be present even when empty: a nil slice means the key
// was absent from the normalizer output, which struct tags cannot express.
func (r *BusinessRecord) Validate() error {
	if err := recordValidator.Struct(r); err != nil {
		return err
	}
	if r.Categories == nil {
		return fmt.Errorf("categories list is required")
	}
	if r.Emails == nil {
		return fmt.Errorf("emails list is required")
	}
	return nil
}
