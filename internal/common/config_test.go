package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8085, config.Server.Port)
	assert.Equal(t, 50, config.Scan.FlushThreshold)
	assert.Equal(t, 3, config.Scan.MaxConcurrent)
	assert.Equal(t, 200*time.Millisecond, config.Scan.MinInterval)
	assert.Equal(t, 8*time.Second, config.Scraper.Timeout)
	assert.Equal(t, int64(2*1024*1024), config.Scraper.MaxBodySize)
	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, float32(0.2), config.LLM.Temperature)
	assert.Equal(t, "Sheet1!A:P", config.Sheets.SheetRange)
}

func TestLoadFromFilesOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prospect.toml")
	content := `
[server]
port = 9090

[scan]
flush_threshold = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 10, config.Scan.FlushThreshold)
	// untouched sections keep their defaults
	assert.Equal(t, 3, config.Scan.MaxConcurrent)
}

func TestLoadFromFilesLaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte("[server]\nport = 9000\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[server]\nport = 9001\n"), 0644))

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 9001, config.Server.Port)
}

func TestLoadFromFilesMissingFileFails(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/prospect.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROSPECT_SERVER_PORT", "7070")
	t.Setenv("RAPIDAPI_KEY", "env-search-key")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("SHEETS_SPREADSHEET_ID", "env-sheet-id")
	t.Setenv("PROSPECT_SCAN_MIN_INTERVAL", "500ms")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "env-search-key", config.Search.APIKey)
	assert.Equal(t, "env-gemini-key", config.LLM.APIKey)
	assert.Equal(t, "env-sheet-id", config.Sheets.SpreadsheetID)
	assert.Equal(t, 500*time.Millisecond, config.Scan.MinInterval)
}

func TestAnthropicKeyOnlyAppliesToClaudeProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-claude-key")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Empty(t, config.LLM.APIKey)

	t.Setenv("PROSPECT_LLM_PROVIDER", "claude")
	config, err = LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "env-claude-key", config.LLM.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 6060, "0.0.0.0")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// zero values leave the config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestMissingSecrets(t *testing.T) {
	config := NewDefaultConfig()

	missing := config.MissingSecrets()
	assert.ElementsMatch(t, []string{
		"search.api_key",
		"llm.api_key",
		"sheets.client_email",
		"sheets.private_key",
		"sheets.spreadsheet_id",
	}, missing)

	config.Search.APIKey = "k"
	config.LLM.APIKey = "k"
	config.Sheets.ClientEmail = "svc@test.iam.gserviceaccount.com"
	config.Sheets.PrivateKey = "key"
	config.Sheets.SpreadsheetID = "id"

	assert.Empty(t, config.MissingSecrets())
}
