package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI TTS speaker
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string // tts-1 or tts-1-hd
	Voice     string // alloy, echo, fable, onyx, nova, shimmer
	OutputDir string
}

// OpenAISpeaker synthesizes mp3 files with the OpenAI speech endpoint
type OpenAISpeaker struct {
	client *openai.Client
	config OpenAIConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewOpenAISpeaker creates a speaker writing audio into config.OutputDir
func NewOpenAISpeaker(config OpenAIConfig, logger zerolog.Logger) (*OpenAISpeaker, error) {
	if config.APIKey == "" {
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for speech")
	}
	if config.OutputDir == "" {
		return nil, fmt.Errorf("speech output directory is required")
	}
	if config.Model == "" {
		config.Model = string(openai.TTSModel1)
	}
	if config.Voice == "" {
		config.Voice = string(openai.VoiceAlloy)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAISpeaker{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger.With().Str("speaker", "openai").Logger(),
		now:    time.Now,
	}, nil
}

func (s *OpenAISpeaker) Name() string { return "openai" }

// Speak synthesizes message and saves it as an mp3
func (s *OpenAISpeaker) Speak(ctx context.Context, message string) error {
	start := s.now()

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.Model),
		Input:          message,
		Voice:          openai.SpeechVoice(s.config.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("OpenAI speech error: %w", err)
	}
	defer resp.Close()

	if err := os.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.config.OutputDir, fmt.Sprintf("feels-%d.mp3", start.UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}

	n, err := io.Copy(f, resp)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}

	s.logger.Info().
		Str("path", path).
		Int64("audioBytes", n).
		Dur("processingTime", time.Since(start)).
		Msg("Speech saved")
	return nil
}
