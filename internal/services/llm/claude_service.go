package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
)

// ClaudeService implements Completer using the Anthropic API
type ClaudeService struct {
	config    *common.LLMConfig
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
}

// NewClaudeService creates a new Claude completion provider
func NewClaudeService(config *common.LLMConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set via ANTHROPIC_API_KEY or llm.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "claude-sonnet-4-20250514"
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	service := &ClaudeService{
		config:    config,
		logger:    logger,
		client:    client,
		timeout:   config.Timeout,
		maxTokens: maxTokens,
	}

	logger.Info().
		Str("model", config.Model).
		Float32("temperature", config.Temperature).
		Int("max_tokens", maxTokens).
		Msg("Claude completion service initialized")

	return service, nil
}

// Name identifies the provider for logging
func (s *ClaudeService) Name() string {
	return "claude"
}

// Complete sends a single-turn prompt and returns the response text
func (s *ClaudeService) Complete(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from claude API")
	}

	return response.String(), nil
}
