package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/handlers"
	"github.com/ternarybob/prospect/internal/interfaces"
	"github.com/ternarybob/prospect/internal/models"
	"github.com/ternarybob/prospect/internal/services/events"
	"github.com/ternarybob/prospect/internal/services/llm"
	"github.com/ternarybob/prospect/internal/services/normalizer"
	"github.com/ternarybob/prospect/internal/services/scan"
	"github.com/ternarybob/prospect/internal/services/scraper"
	"github.com/ternarybob/prospect/internal/services/search"
	"github.com/ternarybob/prospect/internal/services/sheets"
	"github.com/ternarybob/prospect/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Pipeline services
	EventService      interfaces.EventService
	SearchService     interfaces.SearchService
	ScraperService    interfaces.ScraperService
	NormalizerService interfaces.NormalizerService
	SheetsService     interfaces.SheetsService
	ScanService       *scan.Service

	// HTTP handlers
	ScanHandler   *handlers.ScanHandler
	ScansHandler  *handlers.ScansHandler
	StatusHandler *handlers.StatusHandler
}

// New creates the application, wiring services, storage and handlers
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	a.EventService = events.NewService(logger)
	a.SearchService = search.NewService(&config.Search, logger)
	a.ScraperService = scraper.NewService(&config.Scraper, logger)

	// Providers needing credentials up front do not block startup. Without
	// them the server still runs; scans report the missing configuration
	// as a terminal error event instead.
	if config.LLM.APIKey == "" {
		logger.Warn().Msg("LLM API key not configured, scans will be rejected")
	} else {
		completer, err := llm.NewCompleter(&config.LLM, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
		}
		a.NormalizerService = normalizer.NewService(completer, logger)
	}

	if sheetsService, err := sheets.NewService(&config.Sheets, logger); err != nil {
		logger.Warn().Err(err).Msg("Sheets service not configured, scans will be rejected")
	} else {
		a.SheetsService = sheetsService
	}

	a.ScanService = scan.NewService(
		config,
		a.SearchService,
		a.ScraperService,
		a.NormalizerService,
		a.SheetsService,
		a.EventService,
		logger,
	)

	a.subscribeScanEvents()

	a.ScanHandler = handlers.NewScanHandler(a.ScanService, logger)
	a.ScansHandler = handlers.NewScansHandler(storageManager.ScanStorage(), logger)
	a.StatusHandler = handlers.NewStatusHandler(config, logger)

	logger.Info().Msg("Application initialized")

	return a, nil
}

// subscribeScanEvents persists scan lifecycle events into the history store
func (a *App) subscribeScanEvents() {
	persist := func(ctx context.Context, event interfaces.Event) error {
		job, ok := event.Payload.(*models.ScanJob)
		if !ok {
			return fmt.Errorf("unexpected scan event payload type %T", event.Payload)
		}
		if err := a.StorageManager.ScanStorage().SaveScan(ctx, job); err != nil {
			a.Logger.Warn().Err(err).Str("scan_id", job.ID).Msg("Failed to persist scan history")
			return err
		}
		return nil
	}

	for _, eventType := range []interfaces.EventType{
		interfaces.EventScanStarted,
		interfaces.EventScanCompleted,
		interfaces.EventScanFailed,
	} {
		if err := a.EventService.Subscribe(eventType, persist); err != nil {
			a.Logger.Error().
				Err(err).
				Str("event_type", string(eventType)).
				Msg("Failed to subscribe scan history handler")
		}
	}
}

// Close releases application resources
func (a *App) Close() error {
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	return nil
}
