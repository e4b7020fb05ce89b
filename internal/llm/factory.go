package llm

import (
	"fmt"
	"strings"

	"github.com/inkstone-labs/storygraph/internal/config"
)

// NewClient builds a Client from config. Ollama works through its
// OpenAI-compatible endpoint, so both providers share one implementation.
func NewClient(cfg config.LLMConfig) (Client, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "none":
		return nil, nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		// Ollama ignores the key but the client config requires one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
