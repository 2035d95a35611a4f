package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
)

// Service orchestrates the scan pipeline: one listing search, per-listing
// contact extraction and normalization (both rate-gated), batched sheet
// appends, and an ordered progress event stream back to the caller.
//
// All scan-level state (processed count, pending batch) is owned by the
// single goroutine running one scan; listings are processed strictly in
// search order.
type Service struct {
	config       *common.Config
	search       interfaces.SearchService
	scraper      interfaces.ScraperService
	normalizer   interfaces.NormalizerService
	sheets       interfaces.SheetsService
	eventService interfaces.EventService
	logger       arbor.ILogger
	gate         *Gate
}

// NewService creates the scan orchestrator
func NewService(
	config *common.Config,
	searchService interfaces.SearchService,
	scraperService interfaces.ScraperService,
	normalizerService interfaces.NormalizerService,
	sheetsService interfaces.SheetsService,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:       config,
		search:       searchService,
		scraper:      scraperService,
		normalizer:   normalizerService,
		sheets:       sheetsService,
		eventService: eventService,
		logger:       logger,
		gate:         NewGate(config.Scan.MaxConcurrent, config.Scan.MinInterval),
	}
}

// Scan starts one scan and returns its ordered progress event stream. The
// channel is closed after the terminal event (`completed` or a fatal
// `error`); cancelling ctx stops further work from being scheduled.
func (s *Service) Scan(ctx context.Context, req *models.ScanRequest) <-chan models.ProgressEvent {
	events := make(chan models.ProgressEvent, 16)
	go s.run(ctx, req, events)
	return events
}

func (s *Service) run(ctx context.Context, req *models.ScanRequest, events chan<- models.ProgressEvent) {
	defer close(events)

	jobID := common.NewScanID()
	job := &models.ScanJob{
		ID:        jobID,
		Region:    req.Region,
		Activity:  req.Activity,
		Status:    models.ScanJobRunning,
		StartedAt: time.Now().UTC(),
	}

	emit := func(event models.ProgressEvent) {
		event.Timestamp = time.Now().UTC()
		select {
		case events <- event:
		case <-ctx.Done():
			// Caller disconnected; the event is discarded
		}
	}

	fail := func(message string, details interface{}) {
		emit(models.ProgressEvent{
			Status:  models.ScanStatusError,
			Message: message,
			Details: details,
		})
		job.Status = models.ScanJobFailed
		job.Error = message
		job.CompletedAt = time.Now().UTC()
		s.publish(interfaces.EventScanFailed, job)
	}

	// Unanticipated panics in the pipeline surface as a terminal error event
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("job_id", jobID).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Scan pipeline panicked")
			fail("Internal server error", fmt.Sprintf("%v", r))
		}
	}()

	// Validating
	if err := req.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("Scan request validation failed")
		fail("Invalid request data", err.Error())
		return
	}

	if missing := s.config.MissingSecrets(); len(missing) > 0 {
		s.logger.Error().
			Strs("missing", missing).
			Str("job_id", jobID).
			Msg("Scan aborted: missing credentials")
		fail("Missing one or more API keys or Sheets credentials", missing)
		return
	}

	s.logger.Info().
		Str("job_id", jobID).
		Str("region", req.Region).
		Str("activity", req.Activity).
		Msg("Scan initiated")

	emit(models.ProgressEvent{
		Status:  models.ScanStatusStarted,
		JobID:   jobID,
		Message: "Scan initiated",
	})
	s.publish(interfaces.EventScanStarted, job)

	// Searching - failure here is fatal to the whole scan
	emit(models.ProgressEvent{
		Status:   models.ScanStatusProgress,
		Message:  "Searching local businesses...",
		Progress: 5,
	})

	listings, err := s.search.Search(ctx, req.Region, req.Activity)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Listing search failed")
		fail("Local business search failed", err.Error())
		return
	}

	foundCount := len(listings)
	job.FoundCount = foundCount
	emit(models.ProgressEvent{
		Status:     models.ScanStatusProgress,
		Message:    fmt.Sprintf("Found %d businesses.", foundCount),
		FoundCount: &foundCount,
		Progress:   20,
	})

	// Processing - listings strictly in search order; the pending batch is
	// owned by this goroutine only
	batch := make([]models.BusinessRecord, 0, s.config.Scan.FlushThreshold)
	processed := 0
	appended := 0

	for i, listing := range listings {
		if ctx.Err() != nil {
			break
		}

		contacts := models.EmptyContacts()
		if listing.Website != "" {
			var scraped models.ScrapedContacts
			if err := s.gate.Do(ctx, func(c context.Context) error {
				scraped = s.scraper.Scrape(c, listing.Website)
				return nil
			}); err == nil {
				contacts = scraped
			}
		}

		var record *models.BusinessRecord
		err := s.gate.Do(ctx, func(c context.Context) error {
			normalized, normErr := s.normalizer.Normalize(c, listing, contacts)
			if normErr != nil {
				return normErr
			}
			record = normalized
			return nil
		})
		if err != nil {
			// Recovered locally: the listing is dropped, the scan continues
			s.logger.Warn().
				Err(err).
				Str("job_id", jobID).
				Str("place_id", listing.PlaceID).
				Str("name", listing.Name).
				Msg("Listing dropped: normalization failed")
		} else if record != nil {
			record.Source = models.RecordSource
			record.CollectedAt = time.Now().UTC().Format(time.RFC3339)
			record.RegionQuery = req.Region
			record.ActivityQuery = req.Activity
			batch = append(batch, *record)
		}

		processed++
		progress := 20 + float64(processed)/float64(foundCount)*70
		if progress > 90 {
			progress = 90
		}
		processedCount := processed
		emit(models.ProgressEvent{
			Status:         models.ScanStatusProgress,
			Message:        fmt.Sprintf("Processing business %d/%d...", processed, foundCount),
			ProcessedCount: &processedCount,
			Progress:       progress,
		})

		isLast := i == len(listings)-1
		if len(batch) >= s.config.Scan.FlushThreshold || (isLast && len(batch) > 0) {
			flushed := len(batch)
			flushErr := s.gate.Do(ctx, func(c context.Context) error {
				return s.sheets.Append(c, batch)
			})
			if flushErr != nil {
				// Non-fatal: the batch stays pending and is retried on the
				// next trigger; the scan continues
				s.logger.Error().
					Err(flushErr).
					Int("batch_size", flushed).
					Str("job_id", jobID).
					Msg("Sheet append failed, batch retained")
				emit(models.ProgressEvent{
					Status:  models.ScanStatusError,
					Message: "Failed to write to Google Sheet.",
					Details: flushErr.Error(),
				})
			} else {
				appended += flushed
				flushProgress := progress + 5
				if flushProgress > 95 {
					flushProgress = 95
				}
				emit(models.ProgressEvent{
					Status:   models.ScanStatusProgress,
					Message:  fmt.Sprintf("Appended %d records to Google Sheet.", flushed),
					Progress: flushProgress,
				})
				batch = batch[:0]
			}
		}
	}

	job.ProcessedCount = processed
	job.RecordCount = appended

	if ctx.Err() != nil {
		s.logger.Info().
			Str("job_id", jobID).
			Int("processed", processed).
			Msg("Scan stopped: caller disconnected")
		job.Status = models.ScanJobFailed
		job.Error = "caller disconnected"
		job.CompletedAt = time.Now().UTC()
		s.publish(interfaces.EventScanFailed, job)
		return
	}

	job.Status = models.ScanJobCompleted
	job.SheetURL = s.sheets.SheetURL()
	job.CompletedAt = time.Now().UTC()

	emit(models.ProgressEvent{
		Status:   models.ScanStatusCompleted,
		Message:  "Scan finished successfully!",
		Progress: 100,
		SheetURL: job.SheetURL,
	})
	s.publish(interfaces.EventScanCompleted, job)

	s.logger.Info().
		Str("job_id", jobID).
		Int("found", foundCount).
		Int("processed", processed).
		Int("appended", appended).
		Msg("Scan completed")
}

// publish sends a scan lifecycle event on the internal bus. Publishing uses a
// background context so subscribers still run when the caller has gone away.
func (s *Service) publish(eventType interfaces.EventType, job *models.ScanJob) {
	if s.eventService == nil {
		return
	}

	jobCopy := *job
	if err := s.eventService.Publish(context.Background(), interfaces.Event{
		Type:    eventType,
		Payload: &jobCopy,
	}); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish scan event")
	}
}
