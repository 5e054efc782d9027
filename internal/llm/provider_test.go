package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/model"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    model.Sentiment
		wantErr bool
	}{
		{"bare json", `{"label":"Alegría","confidence":0.9}`, model.Sentiment{Label: "Alegría", Confidence: 0.9}, false},
		{"surrounded by prose", `Sure! {"label": "Enojo", "confidence": 0.5} Hope that helps.`, model.Sentiment{Label: "Enojo", Confidence: 0.5}, false},
		{"negative confidence clamped", `{"label":"Calma","confidence":-2}`, model.Sentiment{Label: "Calma", Confidence: 0}, false},
		{"label trimmed", `{"label":"  Miedo ","confidence":0.3}`, model.Sentiment{Label: "Miedo", Confidence: 0.3}, false},
		{"no json", "happy", model.Sentiment{}, true},
		{"empty label", `{"label":"","confidence":1}`, model.Sentiment{}, true},
		{"broken json", `{"label": }`, model.Sentiment{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparsableReply) {
					t.Fatalf("Expected ErrUnparsableReply, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReply failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseReply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("me siento genial")
	if !strings.Contains(prompt, "me siento genial") {
		t.Error("Prompt should contain the text")
	}
	if !strings.Contains(prompt, `"label"`) || !strings.Contains(prompt, `"confidence"`) {
		t.Error("Prompt should describe the JSON reply")
	}
}

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{"disabled", Config{}, "", true, false},
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai", false, false},
		{"openai without key", Config{Provider: "openai"}, "", false, true},
		{"claude alias", Config{Provider: "Claude", APIKey: "k"}, "anthropic", false, false},
		{"ollama", Config{Provider: "ollama", Model: "llama3.1"}, "ollama", false, false},
		{"hf alias", Config{Provider: "hf"}, "huggingface", false, false},
		{"unknown", Config{Provider: "watson"}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClassifier(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClassifier failed: %v", err)
			}
			if tt.wantNil {
				if c != nil {
					t.Fatalf("Expected nil classifier, got %T", c)
				}
				return
			}
			if c.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", c.Name(), tt.wantName)
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "from-env")

	cfg := model.DefaultConfig()
	cfg.Classifier.Provider = "huggingface"
	cfg.HTTP.HTTPSProxy = "http://proxy:3128"

	c := ConfigFromModel(*cfg, zerolog.Nop())
	if c.APIKey != "from-env" {
		t.Errorf("Expected key from environment, got %q", c.APIKey)
	}
	if c.HTTPSProxy != "http://proxy:3128" {
		t.Errorf("Expected proxy to carry over, got %q", c.HTTPSProxy)
	}
	if c.LabelsURL != cfg.Classifier.LabelsURL || c.Timeout != 30 {
		t.Errorf("Unexpected config: %+v", c)
	}

	cfg.Classifier.APIKey = "explicit"
	if c := ConfigFromModel(*cfg, zerolog.Nop()); c.APIKey != "explicit" {
		t.Errorf("Explicit key should win, got %q", c.APIKey)
	}
}
