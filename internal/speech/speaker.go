// Package speech hands classification results to a voice or log sink.
package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/model"
)

// Speaker delivers a message to the user
type Speaker interface {
	Name() string
	Speak(ctx context.Context, message string) error
}

// Options carry credentials that do not live in SpeechConfig
type Options struct {
	APIKey  string
	BaseURL string
}

// NewSpeaker builds the speaker named by cfg.Engine
func NewSpeaker(cfg model.SpeechConfig, opts Options, logger zerolog.Logger) (Speaker, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", "log":
		return NewLogSpeaker(logger), nil
	case "command", "espeak", "say":
		return NewCommandSpeaker(cfg.Command, cfg.Voice, logger)
	case "openai":
		return NewOpenAISpeaker(OpenAIConfig{
			APIKey:    opts.APIKey,
			BaseURL:   opts.BaseURL,
			Voice:     cfg.Voice,
			OutputDir: cfg.OutputDir,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown speech engine: %s (supported: log, command, openai)", cfg.Engine)
	}
}

// LogSpeaker writes messages to the structured log
type LogSpeaker struct {
	logger zerolog.Logger
}

// NewLogSpeaker creates a speaker that logs at info level
func NewLogSpeaker(logger zerolog.Logger) *LogSpeaker {
	return &LogSpeaker{logger: logger.With().Str("speaker", "log").Logger()}
}

func (s *LogSpeaker) Name() string { return "log" }

func (s *LogSpeaker) Speak(_ context.Context, message string) error {
	s.logger.Info().Str("message", message).Msg("Speak")
	return nil
}
