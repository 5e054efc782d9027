package llm

import (
	"fmt"
	"strings"
)

// NewClassifier creates a new classifier based on configuration.
// An empty provider disables external classification and returns nil.
func NewClassifier(config Config) (Classifier, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "huggingface", "hf":
		return NewHuggingFaceProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (supported: openai, anthropic, ollama, huggingface)", config.Provider)
	}
}
