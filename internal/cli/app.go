package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/langdetect"
	"github.com/ppiankov/feels/internal/learner"
	"github.com/ppiankov/feels/internal/llm"
	"github.com/ppiankov/feels/internal/model"
	"github.com/ppiankov/feels/internal/pipeline"
	"github.com/ppiankov/feels/internal/speech"
	"github.com/ppiankov/feels/internal/storage"
)

// app holds the components a command works with
type app struct {
	cfg        *model.Config
	logger     zerolog.Logger
	blob       storage.Store
	store      *learner.Store
	status     learner.LoadStatus
	classifier llm.Classifier
	dispatcher *speech.Dispatcher
}

// openApp loads configuration and the example store. A store whose state
// cannot be decoded is an error unless allowCorrupt is set.
func openApp(ctx context.Context, allowCorrupt bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log.Level)

	blob, err := storage.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	store, status, err := learner.Open(ctx, blob,
		learner.WithKey(cfg.Store.Key),
		learner.WithLogger(logger),
	)
	if err != nil && !(allowCorrupt && errors.Is(err, learner.ErrCorruptState)) {
		_ = blob.Close()
		if errors.Is(err, learner.ErrCorruptState) {
			return nil, fmt.Errorf("%w\nThe stored examples at %s cannot be read. Run 'feels store reset' to start over", err, storage.Describe(cfg.Store))
		}
		return nil, err
	}

	logger.Debug().
		Str("store", storage.Describe(cfg.Store)).
		Str("status", status.String()).
		Int("examples", store.Len()).
		Msg("Example store opened")

	return &app{
		cfg:    cfg,
		logger: logger,
		blob:   blob,
		store:  store,
		status: status,
	}, nil
}

// analyzer builds the classification pipeline. Empty mode uses the configured one.
func (a *app) analyzer(mode string, speak bool) (*pipeline.Analyzer, error) {
	if mode == "" {
		mode = a.cfg.Classifier.Mode
	}
	m, err := pipeline.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithMode(m),
		pipeline.WithLogger(a.logger),
	}

	if m != pipeline.ModeExamples {
		classifier, err := a.externalClassifier()
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithClassifier(classifier))
	}

	if a.cfg.Language.Enabled {
		detector, err := langdetect.NewStopwordsDetector(a.cfg.Language.Candidates)
		if err != nil {
			return nil, fmt.Errorf("language detection: %w", err)
		}
		opts = append(opts, pipeline.WithDetector(detector))
	}

	if speak || a.cfg.Speech.Enabled {
		dispatcher, err := a.speechDispatcher()
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithAnnouncer(dispatcher))
	}

	return pipeline.NewAnalyzer(a.store, opts...)
}

func (a *app) externalClassifier() (llm.Classifier, error) {
	if a.classifier != nil {
		return a.classifier, nil
	}
	classifier, err := llm.NewClassifier(llm.ConfigFromModel(*a.cfg, a.logger))
	if err != nil {
		return nil, fmt.Errorf("classifier provider: %w", err)
	}
	if classifier == nil {
		return nil, nil
	}
	a.classifier = classifier
	return classifier, nil
}

func (a *app) speechDispatcher() (*speech.Dispatcher, error) {
	if a.dispatcher != nil {
		return a.dispatcher, nil
	}
	speaker, err := speech.NewSpeaker(a.cfg.Speech, speech.Options{
		APIKey: llm.APIKeyFromEnv("openai"),
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("speech: %w", err)
	}
	a.dispatcher = speech.NewDispatcher(speaker, a.cfg.Speech.QueueSize, a.logger)
	return a.dispatcher, nil
}

// providerName names the rate limiter bucket of the external classifier
func (a *app) providerName() string {
	if a.classifier != nil {
		return a.classifier.Name()
	}
	return "examples"
}

// Close flushes pending speech and releases the store
func (a *app) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if err := a.blob.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Closing store")
	}
}
