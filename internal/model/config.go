package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete feels configuration
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Classifier   ClassifierConfig   `yaml:"classifier" mapstructure:"classifier"`
	Language     LanguageConfig     `yaml:"language" mapstructure:"language"`
	Speech       SpeechConfig       `yaml:"speech" mapstructure:"speech"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Import       ImportConfig       `yaml:"import" mapstructure:"import"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects where taught examples are persisted
type StoreConfig struct {
	Backend    string      `yaml:"backend" mapstructure:"backend"` // disk, memory, layered, sqlite, redis
	Dir        string      `yaml:"dir" mapstructure:"dir"`         // Directory for the disk backend
	Key        string      `yaml:"key" mapstructure:"key"`         // Blob slot name
	SQLitePath string      `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// ClassifierConfig configures how texts are classified
type ClassifierConfig struct {
	Mode      string `yaml:"mode" mapstructure:"mode"`         // examples, model, hybrid
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, huggingface, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	LabelsURL string `yaml:"labels_url,omitempty" mapstructure:"labels_url"`
}

// LanguageConfig configures language detection
type LanguageConfig struct {
	Enabled    bool     `yaml:"enabled" mapstructure:"enabled"`
	Candidates []string `yaml:"candidates" mapstructure:"candidates"`
}

// SpeechConfig configures spoken feedback
type SpeechConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Engine    string `yaml:"engine" mapstructure:"engine"` // log, command, openai
	Voice     string `yaml:"voice,omitempty" mapstructure:"voice"`
	Command   string `yaml:"command,omitempty" mapstructure:"command"`
	OutputDir string `yaml:"output_dir,omitempty" mapstructure:"output_dir"`
	QueueSize int    `yaml:"queue_size" mapstructure:"queue_size"`
}

// ConcurrencyConfig configures batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles external classifier calls
type RateLimitingConfig struct {
	RequestsPerSecond float64                 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int                     `yaml:"burst_size" mapstructure:"burst_size"`
	Providers         map[string]ProviderRate `yaml:"providers,omitempty" mapstructure:"providers"` // Per-provider overrides
}

// ProviderRate overrides the default rate for one provider
type ProviderRate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ImportConfig configures bulk ingestion
type ImportConfig struct {
	Sheet string `yaml:"sheet,omitempty" mapstructure:"sheet"` // XLSX sheet, first sheet if empty
}

// HTTPConfig holds proxy settings shared by HTTP-based providers
type HTTPConfig struct {
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LogConfig configures diagnostics
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultHome returns ~/.feels
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".feels"
	}
	return filepath.Join(home, ".feels")
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	home := DefaultHome()
	return &Config{
		Store: StoreConfig{
			Backend:    "disk",
			Dir:        home,
			Key:        "examples",
			SQLitePath: filepath.Join(home, "feels.db"),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Classifier: ClassifierConfig{
			Mode:      "examples",
			Provider:  "",
			Timeout:   30,
			LabelsURL: "https://raw.githubusercontent.com/cardiffnlp/tweeteval/main/datasets/sentiment/mapping.txt",
		},
		Language: LanguageConfig{
			Enabled:    false,
			Candidates: []string{"es", "en", "pt", "fr", "it", "de"},
		},
		Speech: SpeechConfig{
			Enabled:   false,
			Engine:    "log",
			Voice:     "alloy",
			OutputDir: filepath.Join(home, "speech"),
			QueueSize: 16,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
