package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
	"google.golang.org/genai"
)

// GeminiService implements Completer using the Gemini API. Responses are
// requested as JSON with a low temperature for deterministic-leaning output.
type GeminiService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiService creates a new Gemini completion provider
func NewGeminiService(config *common.LLMConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set via GEMINI_API_KEY or llm.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: config.Timeout,
	}

	logger.Info().
		Str("model", config.Model).
		Float32("temperature", config.Temperature).
		Dur("timeout", config.Timeout).
		Msg("Gemini completion service initialized")

	return service, nil
}

// Name identifies the provider for logging
func (s *GeminiService) Name() string {
	return "gemini"
}

// Complete sends a single-turn prompt and returns the response text
func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(s.config.Temperature),
		ResponseMIMEType: "application/json",
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	// Iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from gemini model")
	}

	return response.String(), nil
}
