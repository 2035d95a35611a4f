package models

// ScrapedContacts is the result of contact extraction for one website.
// Always fully populated: on any failure it collapses to the empty value.
type ScrapedContacts struct {
	// Emails are case-normalized and deduplicated, in document order
	Emails []string `json:"emails"`

	// Socials maps platform name to at most one profile URL
	// (first match in document order wins per platform)
	Socials map[string]string `json:"socials"`
}

// EmptyContacts returns the zero-result value used for every failure mode
func EmptyContacts() ScrapedContacts {
	return ScrapedContacts{
		Emails:  []string{},
		Socials: map[string]string{},
	}
}
