package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Scan        ScanConfig    `toml:"scan"`
	Search      SearchConfig  `toml:"search"`
	Scraper     ScraperConfig `toml:"scraper"`
	LLM         LLMConfig     `toml:"llm"`
	Sheets      SheetsConfig  `toml:"sheets"`
	Storage     StorageConfig `toml:"storage"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ScanConfig controls the scan pipeline: batching and the shared rate gate
// applied to all outbound calls made per listing.
type ScanConfig struct {
	FlushThreshold int           `toml:"flush_threshold"` // batch size that triggers a sheet append
	MaxConcurrent  int           `toml:"max_concurrent"`  // max in-flight gated operations
	MinInterval    time.Duration `toml:"min_interval"`    // minimum spacing between operation starts
}

// SearchConfig configures the RapidAPI local-business-data client
type SearchConfig struct {
	APIKey  string        `toml:"api_key"`
	Host    string        `toml:"host"`     // RapidAPI host header
	BaseURL string        `toml:"base_url"` // override for tests
	Timeout time.Duration `toml:"timeout"`
}

// ScraperConfig bounds the contact extractor's page fetch
type ScraperConfig struct {
	Timeout     time.Duration `toml:"timeout"`
	MaxBodySize int64         `toml:"max_body_size"`
	UserAgent   string        `toml:"user_agent"`
}

// LLMConfig configures the normalization provider
type LLMConfig struct {
	Provider    string        `toml:"provider"` // "gemini" or "claude"
	APIKey      string        `toml:"api_key"`
	Model       string        `toml:"model"`
	Temperature float32       `toml:"temperature"`
	MaxTokens   int           `toml:"max_tokens"`
	Timeout     time.Duration `toml:"timeout"`
}

// SheetsConfig configures the Google Sheets destination
type SheetsConfig struct {
	ClientEmail   string `toml:"client_email"`
	PrivateKey    string `toml:"private_key"`
	SpreadsheetID string `toml:"spreadsheet_id"`
	SheetRange    string `toml:"sheet_range"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// NewDefaultConfig returns a config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Scan: ScanConfig{
			FlushThreshold: 50,
			MaxConcurrent:  3,
			MinInterval:    200 * time.Millisecond,
		},
		Search: SearchConfig{
			Host:    "local-business-data.p.rapidapi.com",
			BaseURL: "https://local-business-data.p.rapidapi.com",
			Timeout: 30 * time.Second,
		},
		Scraper: ScraperConfig{
			Timeout:     8 * time.Second,
			MaxBodySize: 2 * 1024 * 1024,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.127 Safari/537.36",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Temperature: 0.2,
			MaxTokens:   4096,
			Timeout:     60 * time.Second,
		},
		Sheets: SheetsConfig{
			SheetRange: "Sheet1!A:P",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/prospect",
			},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PROSPECT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("PROSPECT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PROSPECT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("PROSPECT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PROSPECT_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Scan configuration
	if threshold := os.Getenv("PROSPECT_SCAN_FLUSH_THRESHOLD"); threshold != "" {
		if t, err := strconv.Atoi(threshold); err == nil && t > 0 {
			config.Scan.FlushThreshold = t
		}
	}
	if maxConcurrent := os.Getenv("PROSPECT_SCAN_MAX_CONCURRENT"); maxConcurrent != "" {
		if mc, err := strconv.Atoi(maxConcurrent); err == nil && mc > 0 {
			config.Scan.MaxConcurrent = mc
		}
	}
	if minInterval := os.Getenv("PROSPECT_SCAN_MIN_INTERVAL"); minInterval != "" {
		if mi, err := time.ParseDuration(minInterval); err == nil {
			config.Scan.MinInterval = mi
		}
	}

	// Search provider
	if apiKey := os.Getenv("RAPIDAPI_KEY"); apiKey != "" {
		config.Search.APIKey = apiKey
	}
	if apiKey := os.Getenv("PROSPECT_SEARCH_API_KEY"); apiKey != "" {
		config.Search.APIKey = apiKey
	}
	if timeout := os.Getenv("PROSPECT_SEARCH_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			config.Search.Timeout = t
		}
	}

	// Scraper configuration
	if timeout := os.Getenv("PROSPECT_SCRAPER_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			config.Scraper.Timeout = t
		}
	}
	if maxBodySize := os.Getenv("PROSPECT_SCRAPER_MAX_BODY_SIZE"); maxBodySize != "" {
		if mbs, err := strconv.ParseInt(maxBodySize, 10, 64); err == nil && mbs > 0 {
			config.Scraper.MaxBodySize = mbs
		}
	}
	if userAgent := os.Getenv("PROSPECT_SCRAPER_USER_AGENT"); userAgent != "" {
		config.Scraper.UserAgent = userAgent
	}

	// LLM provider
	if provider := os.Getenv("PROSPECT_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" && config.LLM.Provider == "gemini" {
		config.LLM.APIKey = apiKey
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" && config.LLM.Provider == "claude" {
		config.LLM.APIKey = apiKey
	}
	if apiKey := os.Getenv("PROSPECT_LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if model := os.Getenv("PROSPECT_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}

	// Sheets destination
	if email := os.Getenv("SHEETS_CLIENT_EMAIL"); email != "" {
		config.Sheets.ClientEmail = email
	}
	if key := os.Getenv("SHEETS_PRIVATE_KEY"); key != "" {
		config.Sheets.PrivateKey = key
	}
	if id := os.Getenv("SHEETS_SPREADSHEET_ID"); id != "" {
		config.Sheets.SpreadsheetID = id
	}

	// Storage configuration
	if badgerPath := os.Getenv("PROSPECT_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// MissingSecrets returns the names of required provider secrets that are not
// configured. An empty slice means the scan pipeline can run.
func (c *Config) MissingSecrets() []string {
	missing := []string{}
	if c.Search.APIKey == "" {
		missing = append(missing, "search.api_key")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "llm.api_key")
	}
	if c.Sheets.ClientEmail == "" {
		missing = append(missing, "sheets.client_email")
	}
	if c.Sheets.PrivateKey == "" {
		missing = append(missing, "sheets.private_key")
	}
	if c.Sheets.SpreadsheetID == "" {
		missing = append(missing, "sheets.spreadsheet_id")
	}
	return missing
}
