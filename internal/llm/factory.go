package llm

import (
	"fmt"
	"os"
)

// DefaultProvider and DefaultModel are used when the configuration leaves them blank.
const (
	DefaultProvider = "google"
	DefaultModel    = "gemini-2.5-flash"
)

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "google", "anthropic", "openai", "ollama".
func NewProvider(providerType string, model string) (Provider, error) {
	if providerType == "" {
		providerType = DefaultProvider
	}
	switch providerType {
	case "google", "gemini":
		apiKey := firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY (or GEMINI_API_KEY) environment variable is not set")
		}
		if model == "" {
			model = DefaultModel
		}
		return NewGoogleProvider(apiKey, model), nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return NewAnthropicProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProviderWithBaseURL(apiKey, model, os.Getenv("OPENAI_BASE_URL")), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
