package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/langdetect"
	"github.com/ppiankov/feels/internal/llm"
	"github.com/ppiankov/feels/internal/model"
)

// Mode selects which stages answer a classification
type Mode string

const (
	ModeExamples Mode = "examples" // Taught examples, then the keyword rule
	ModeModel    Mode = "model"    // External classifier only
	ModeHybrid   Mode = "hybrid"   // Examples, then external, then the keyword rule
)

// ErrNoClassifier is returned when a mode needs an external classifier that is not configured
var ErrNoClassifier = errors.New("no external classifier configured")

// ParseMode validates a mode name. Empty means examples.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeExamples:
		return ModeExamples, nil
	case ModeModel:
		return ModeModel, nil
	case ModeHybrid:
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("unknown mode: %s (supported: examples, model, hybrid)", s)
	}
}

// ExampleMatcher classifies against taught examples and reports which stage answered
type ExampleMatcher interface {
	Match(text string) (model.Sentiment, model.Source)
}

// Announcer receives the rendered sentiment of each analysis
type Announcer interface {
	Speak(message string) bool
}

// Analyzer orchestrates one classification
type Analyzer struct {
	mode       Mode
	examples   ExampleMatcher
	classifier llm.Classifier
	detector   langdetect.Detector
	announcer  Announcer
	logger     zerolog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithMode sets the classification mode
func WithMode(m Mode) Option {
	return func(a *Analyzer) { a.mode = m }
}

// WithClassifier attaches an external classifier; nil leaves it disabled
func WithClassifier(c llm.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithDetector enables language detection
func WithDetector(d langdetect.Detector) Option {
	return func(a *Analyzer) { a.detector = d }
}

// WithAnnouncer hands every result to a speech sink
func WithAnnouncer(s Announcer) Option {
	return func(a *Analyzer) { a.announcer = s }
}

// WithLogger sets the analyzer logger
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// NewAnalyzer creates an analyzer over examples
func NewAnalyzer(examples ExampleMatcher, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		mode:     ModeExamples,
		examples: examples,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("component", "analyzer").Str("mode", string(a.mode)).Logger()

	if a.mode == ModeModel && a.classifier == nil {
		return nil, fmt.Errorf("mode %s: %w", a.mode, ErrNoClassifier)
	}
	if a.examples == nil && a.mode != ModeModel {
		return nil, fmt.Errorf("mode %s requires an example store", a.mode)
	}
	return a, nil
}

// Mode returns the configured mode
func (a *Analyzer) Mode() Mode {
	return a.mode
}

// Analyze classifies text according to the configured mode
func (a *Analyzer) Analyze(ctx context.Context, text string) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.Result{}, err
	}

	result := model.Result{Text: text}

	switch a.mode {
	case ModeModel:
		sentiment, err := a.classifier.Classify(ctx, text)
		if err != nil {
			return model.Result{}, fmt.Errorf("%s: %w", a.classifier.Name(), err)
		}
		result.Sentiment, result.Source = sentiment, model.SourceExternal

	case ModeHybrid:
		result.Sentiment, result.Source = a.hybrid(ctx, text)

	default:
		result.Sentiment, result.Source = a.examples.Match(text)
	}

	if a.detector != nil {
		result.Language = a.detectLanguage(text)
	}

	a.logger.Debug().
		Str("label", result.Sentiment.Label).
		Float64("confidence", result.Sentiment.Confidence).
		Str("source", string(result.Source)).
		Msg("Analyzed text")

	if a.announcer != nil {
		a.announcer.Speak(result.Sentiment.String())
	}

	return result, nil
}

func (a *Analyzer) hybrid(ctx context.Context, text string) (model.Sentiment, model.Source) {
	sentiment, source := a.examples.Match(text)
	if source == model.SourceExample || a.classifier == nil {
		return sentiment, source
	}

	external, err := a.classifier.Classify(ctx, text)
	if err != nil {
		a.logger.Warn().Err(err).Str("provider", a.classifier.Name()).Msg("External classifier failed, using keyword fallback")
		return sentiment, source
	}
	return external, model.SourceExternal
}

func (a *Analyzer) detectLanguage(text string) string {
	lang, err := a.detector.Detect(text)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Language undetermined")
		return langdetect.Undetermined
	}
	return lang
}
