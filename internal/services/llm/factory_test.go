package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/prospect/internal/common"
)

func TestNewCompleterRejectsUnknownProvider(t *testing.T) {
	_, err := NewCompleter(&common.LLMConfig{Provider: "gpt", APIKey: "k"}, common.GetLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}

func TestNewCompleterRequiresAPIKey(t *testing.T) {
	_, err := NewCompleter(&common.LLMConfig{Provider: "gemini"}, common.GetLogger())
	assert.Error(t, err)

	_, err = NewCompleter(&common.LLMConfig{Provider: "claude"}, common.GetLogger())
	assert.Error(t, err)
}

func TestNewCompleterBuildsClaudeProvider(t *testing.T) {
	completer, err := NewCompleter(&common.LLMConfig{
		Provider:  "claude",
		APIKey:    "test-key",
		Timeout:   time.Minute,
		MaxTokens: 1024,
	}, common.GetLogger())

	require.NoError(t, err)
	assert.Equal(t, "claude", completer.Name())
}

func TestClaudeDefaultsModelAndTokens(t *testing.T) {
	config := &common.LLMConfig{Provider: "claude", APIKey: "test-key", Timeout: time.Minute}
	service, err := NewClaudeService(config, common.GetLogger())

	require.NoError(t, err)
	assert.NotEmpty(t, config.Model)
	assert.Equal(t, 4096, service.maxTokens)
}
