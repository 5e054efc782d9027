package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feels/internal/model"
)

// Analyzer classifies one text
type Analyzer interface {
	Analyze(ctx context.Context, text string) (model.Result, error)
}

// TextJob represents the classification of one line of a batch
type TextJob struct {
	Index    int
	Text     string
	Analyzer Analyzer
	Limiter  *Limiter
	Key      string // Limiter bucket, usually the provider name
}

// Execute executes the classification job
func (j *TextJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Key); err != nil {
			return &TextResult{Index: j.Index, Text: j.Text, Error: err}
		}
	}

	result, err := j.Analyzer.Analyze(ctx, j.Text)
	if err != nil {
		return &TextResult{Index: j.Index, Text: j.Text, Error: err}
	}
	result.Index = j.Index
	return &TextResult{Index: j.Index, Text: j.Text, Result: result}
}

// TextResult represents the result of a classification job
type TextResult struct {
	Index  int
	Text   string
	Result model.Result
	Error  error
}

// GetError returns the error from the classification
func (r *TextResult) GetError() error {
	return r.Error
}

// BatchProcessor classifies many texts concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	limitKey    string
	logger      zerolog.Logger
}

// NewBatchProcessor creates a new batch processor. limiter may be nil.
func NewBatchProcessor(analyzer Analyzer, concurrency int, limiter *Limiter, limitKey string, logger zerolog.Logger) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
		limitKey:    limitKey,
		logger:      logger.With().Str("component", "batch").Logger(),
	}
}

// ProcessTexts classifies texts concurrently and returns results in input order
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*TextResult {
	if len(texts) == 0 {
		return []*TextResult{}
	}

	pool := NewPoolContext(ctx, b.concurrency)
	pool.Start()

	for i, text := range texts {
		if ctx.Err() != nil {
			// Stop workers now; texts not yet submitted are reported as canceled
			pool.Shutdown()
			break
		}
		pool.Submit(&TextJob{
			Index:    i,
			Text:     text,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
			Key:      b.limitKey,
		})
	}

	results := pool.Wait()

	ordered := make([]*TextResult, len(texts))
	for _, result := range results {
		r := result.(*TextResult)
		ordered[r.Index] = r
	}

	// Jobs dropped by cancellation never report back
	failed := 0
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &TextResult{Index: i, Text: texts[i], Error: err}
		}
		if ordered[i].Error != nil {
			failed++
		}
	}

	b.logger.Info().
		Int("texts", len(texts)).
		Int("failed", failed).
		Int("workers", b.concurrency).
		Msg("Batch finished")

	return ordered
}

// ProcessFile reads texts from a file and classifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TextResult, error) {
	texts, err := ReadLinesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.ProcessTexts(ctx, texts), nil
}

// ReadLinesFromFile reads one text per line, skipping blank lines and # comments.
// Repeated lines are kept; each is a separate input.
func ReadLinesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
