package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/model"
)

// Classifier defines the interface for external sentiment classifiers
type Classifier interface {
	// Name returns the provider name
	Name() string

	// Classify labels a single text
	Classify(ctx context.Context, text string) (model.Sentiment, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ErrUnparsableReply is returned when a model answer carries no usable label
var ErrUnparsableReply = errors.New("unparsable classifier reply")

// Config holds classifier provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "huggingface", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Hugging Face
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// LabelsURL points at the label vocabulary of index-based models
	LabelsURL string

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	Logger zerolog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 60,
		Logger:    zerolog.Nop(),
	}
}

// ConfigFromModel converts the application config into a provider config.
// A missing API key is read from the provider's conventional environment
// variable.
func ConfigFromModel(cfg model.Config, logger zerolog.Logger) Config {
	c := Config{
		Provider:   cfg.Classifier.Provider,
		Model:      cfg.Classifier.Model,
		APIKey:     cfg.Classifier.APIKey,
		BaseURL:    cfg.Classifier.BaseURL,
		Timeout:    cfg.Classifier.Timeout,
		LabelsURL:  cfg.Classifier.LabelsURL,
		MaxTokens:  60,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
		Logger:     logger,
	}
	if c.APIKey == "" {
		c.APIKey = APIKeyFromEnv(c.Provider)
	}
	return c
}

// APIKeyFromEnv returns the key stored in the provider's environment variable
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "huggingface", "hf":
		return os.Getenv("HF_API_TOKEN")
	default:
		return ""
	}
}

const systemPrompt = "You are a sentiment classifier. You answer with a single JSON object and nothing else."

// BuildPrompt constructs the classification instruction for text
func BuildPrompt(text string) string {
	return fmt.Sprintf(`Classify the sentiment of the text below.

Answer ONLY with JSON of the form {"label": "<one short sentiment name>", "confidence": <number between 0 and 1>}.
Use the language of the text for the label.

Text:
%s`, text)
}

type reply struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ParseReply extracts the sentiment JSON object from a model answer. Code
// fences and surrounding prose are tolerated.
func ParseReply(raw string) (model.Sentiment, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return model.Sentiment{}, fmt.Errorf("%w: no JSON object in %q", ErrUnparsableReply, truncate(raw, 80))
	}

	var r reply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &r); err != nil {
		return model.Sentiment{}, fmt.Errorf("%w: %w", ErrUnparsableReply, err)
	}

	label := strings.TrimSpace(r.Label)
	if label == "" {
		return model.Sentiment{}, fmt.Errorf("%w: empty label", ErrUnparsableReply)
	}
	return model.NewSentiment(label, r.Confidence), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
