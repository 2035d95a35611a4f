package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/prospect/internal/common"
)

// NewCompleter creates the completion provider selected by configuration
func NewCompleter(config *common.LLMConfig, logger arbor.ILogger) (Completer, error) {
	switch config.Provider {
	case "", "gemini":
		return NewGeminiService(config, logger)

	case "claude":
		return NewClaudeService(config, logger)

	default:
		return nil, fmt.Errorf("unsupported llm provider '%s': must be 'gemini' or 'claude'", config.Provider)
	}
}
