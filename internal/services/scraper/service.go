package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
)

// Service implements ScraperService: it fetches a business website within
// fixed bounds and extracts email addresses and social profile links.
type Service struct {
	config     *common.ScraperConfig
	logger     arbor.ILogger
	httpClient *http.Client
}

// NewService creates a new contact extractor
func NewService(config *common.ScraperConfig, logger arbor.ILogger) interfaces.ScraperService {
	return &Service{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Scrape extracts contact details from the given website. It never fails to
// the caller: every failure mode resolves to the empty result.
func (s *Service) Scrape(ctx context.Context, websiteURL string) models.ScrapedContacts {
	contacts := models.EmptyContacts()

	if websiteURL == "" {
		return contacts
	}

	parsed, err := url.Parse(websiteURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", websiteURL).Msg("Skipping unparseable website URL")
		return contacts
	}

	// Refuse loopback and private-network hosts before any network call
	if isBlockedHost(parsed.Hostname()) {
		s.logger.Warn().Str("url", websiteURL).Msg("Blocked scraping attempt for internal/localhost URL")
		return contacts
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", websiteURL).Msg("Failed to build scrape request")
		return contacts
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", websiteURL).Msg("Website fetch failed")
		return contacts
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Str("url", websiteURL).
			Msg("Website fetch returned non-success status")
		return contacts
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		s.logger.Debug().
			Str("content_type", contentType).
			Str("url", websiteURL).
			Msg("Skipping non-HTML content")
		return contacts
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if length, err := strconv.ParseInt(contentLength, 10, 64); err == nil && length > s.config.MaxBodySize {
			s.logger.Debug().
				Int64("content_length", length).
				Str("url", websiteURL).
				Msg("Skipping oversized content")
			return contacts
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, s.config.MaxBodySize))
	if err != nil {
		s.logger.Warn().Err(err).Str("url", websiteURL).Msg("Failed to parse HTML")
		return contacts
	}

	contacts.Emails = s.extractEmails(doc)
	contacts.Socials = s.extractSocials(doc)

	s.logger.Debug().
		Str("url", websiteURL).
		Int("emails", len(contacts.Emails)).
		Int("socials", len(contacts.Socials)).
		Msg("Contact extraction completed")

	return contacts
}

// extractEmails collects addresses from rendered text and mailto links,
// case-folded and deduplicated, preserving first-seen order
func (s *Service) extractEmails(doc *goquery.Document) []string {
	emails := []string{}
	seen := make(map[string]bool)

	add := func(email string) {
		email = strings.ToLower(email)
		if email != "" && !seen[email] {
			seen[email] = true
			emails = append(emails, email)
		}
	}

	for _, match := range emailPattern.FindAllString(doc.Find("body").Text(), -1) {
		add(match)
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		address := strings.TrimPrefix(href, "mailto:")
		// Drop any ?subject=... query portion
		if idx := strings.Index(address, "?"); idx >= 0 {
			address = address[:idx]
		}
		add(address)
	})

	return emails
}

// extractSocials scans hyperlink targets against the known platform patterns.
// The first matching link in document order wins per platform; later matches
// for an already-populated platform are discarded.
func (s *Service) extractSocials(doc *goquery.Document) map[string]string {
	socials := map[string]string{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		for _, platform := range socialPlatforms {
			if _, taken := socials[platform.name]; taken {
				continue
			}
			if platform.pattern.MatchString(href) {
				socials[platform.name] = href
			}
		}
	})

	return socials
}
