package learner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/model"
	"github.com/ppiankov/feels/internal/storage"
)

// DefaultKey is the blob slot used when no key is configured
const DefaultKey = "examples"

// LoadStatus reports what Load found in storage
type LoadStatus int

const (
	StatusLoaded    LoadStatus = iota // Examples decoded successfully
	StatusMissing                     // No blob stored yet
	StatusRecovered                   // Blob was empty or truncated; started empty
	StatusCorrupt                     // Blob could not be decoded; started empty
	StatusUnavailable                 // Backend could not be read; started empty
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusRecovered:
		return "recovered"
	case StatusCorrupt:
		return "corrupt"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Store is the example-based classifier and its persisted knowledge
type Store struct {
	mu         sync.RWMutex
	categories []Category
	index      map[string]int // label -> position in categories

	blob      storage.Store
	key       string
	corrector Corrector
	logger    zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithKey sets the blob slot name
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithCorrector replaces the pass-through spelling corrector
func WithCorrector(c Corrector) Option {
	return func(s *Store) {
		if c != nil {
			s.corrector = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty store persisting to blob. Call Load to restore
// previously taught examples.
func New(blob storage.Store, opts ...Option) *Store {
	s := &Store{
		index:     make(map[string]int),
		blob:      blob,
		key:       DefaultKey,
		corrector: NoopCorrector{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "learner").Str("key", s.key).Logger()
	return s
}

// Open creates a store and loads it. A corrupt blob is returned as an error
// together with the (empty) store so callers may choose to continue.
func Open(ctx context.Context, blob storage.Store, opts ...Option) (*Store, LoadStatus, error) {
	s := New(blob, opts...)
	status, err := s.Load(ctx)
	return s, status, err
}

// Load replaces the in-memory examples with the persisted ones
func (s *Store) Load(ctx context.Context) (LoadStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	data, err := s.blob.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().Msg("No persisted examples, starting empty")
			return StatusMissing, nil
		}
		return StatusUnavailable, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	categories, err := decode(data)
	if err != nil {
		if errors.Is(err, errTruncated) {
			s.logger.Warn().Int("bytes", len(data)).Msg("Persisted examples are truncated, starting empty")
			return StatusRecovered, nil
		}
		return StatusCorrupt, err
	}

	for _, c := range categories {
		s.index[c.Label] = len(s.categories)
		s.categories = append(s.categories, c)
	}

	s.logger.Debug().Int("labels", len(s.categories)).Int("phrases", s.countLocked()).Msg("Loaded examples")
	return StatusLoaded, nil
}

// Teach records text as an example of label and persists the whole set
func (s *Store) Teach(ctx context.Context, text, label string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(label) == "" {
		return ErrEmptyLabel
	}

	// Stored text must round-trip through JSON unchanged
	phrase := strings.ToValidUTF8(s.corrector.Correct(text), "\uFFFD")
	label = strings.ToValidUTF8(label, "\uFFFD")

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[label]
	if exists {
		s.categories[pos].Phrases = append(s.categories[pos].Phrases, phrase)
	} else {
		pos = len(s.categories)
		s.index[label] = pos
		s.categories = append(s.categories, Category{Label: label, Phrases: []string{phrase}})
	}

	if err := s.persistLocked(ctx); err != nil {
		// Undo so memory never claims knowledge that storage lacks
		if exists {
			phrases := s.categories[pos].Phrases
			s.categories[pos].Phrases = phrases[:len(phrases)-1]
		} else {
			s.categories = s.categories[:pos]
			delete(s.index, label)
		}
		s.logger.Error().Err(err).Str("label", label).Msg("Failed to persist example")
		return err
	}

	s.logger.Debug().Str("label", label).Int("phrases", len(s.categories[pos].Phrases)).Msg("Taught example")
	return nil
}

// Classify returns the sentiment of text. It never fails.
func (s *Store) Classify(text string) model.Sentiment {
	sentiment, _ := s.Match(text)
	return sentiment
}

// Match classifies text and reports which stage answered
func (s *Store) Match(text string) (model.Sentiment, model.Source) {
	normalized := s.Normalize(text)

	if normalized != "" {
		s.mu.RLock()
		for _, c := range s.categories {
			for _, phrase := range c.Phrases {
				p := strings.ToLower(phrase)
				if strings.Contains(normalized, p) || strings.Contains(p, normalized) {
					s.mu.RUnlock()
					return model.NewSentiment(c.Label, ExampleConfidence), model.SourceExample
				}
			}
		}
		s.mu.RUnlock()
	}

	return Fallback(normalized)
}

// Normalize applies spelling correction and lowercasing, the form text takes
// before matching
func (s *Store) Normalize(text string) string {
	return strings.ToLower(strings.ToValidUTF8(s.corrector.Correct(text), "\uFFFD"))
}

// Snapshot returns a deep copy of the taught examples in order
func (s *Store) Snapshot() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = Category{
			Label:   c.Label,
			Phrases: append([]string(nil), c.Phrases...),
		}
	}
	return out
}

// Labels returns the taught labels in insertion order
func (s *Store) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := make([]string, len(s.categories))
	for i, c := range s.categories {
		labels[i] = c.Label
	}
	return labels
}

// Len returns the total number of taught phrases
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

// Reset forgets every example and deletes the persisted blob
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blob.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.reset()
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := encode(s.categories)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.blob.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Store) reset() {
	s.categories = nil
	s.index = make(map[string]int)
}

func (s *Store) countLocked() int {
	n := 0
	for _, c := range s.categories {
		n += len(c.Phrases)
	}
	return n
}
