package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Target receives validated pairs
type Target interface {
	Teach(ctx context.Context, text, label string) error
}

// Report summarizes one bulk ingestion
type Report struct {
	Source    string     `json:"source" yaml:"source"`
	Taught    int        `json:"taught" yaml:"taught"`
	Skipped   int        `json:"skipped" yaml:"skipped"`
	RowErrors []RowError `json:"-" yaml:"-"`
	SourceErr error      `json:"-" yaml:"-"`
}

// Warnings renders row errors for display
func (r Report) Warnings() []string {
	out := make([]string, 0, len(r.RowErrors))
	for i := range r.RowErrors {
		out = append(out, r.RowErrors[i].Error())
	}
	return out
}

// Ingester feeds bulk sources into a Target
type Ingester struct {
	target Target
	logger zerolog.Logger
}

// NewIngester creates an ingester that teaches through t
func NewIngester(t Target, logger zerolog.Logger) *Ingester {
	return &Ingester{
		target: t,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// IngestFile opens path and ingests every row
func (in *Ingester) IngestFile(ctx context.Context, path string, opts Options) Report {
	src, err := Open(path, opts)
	if err != nil {
		in.logger.Error().Err(err).Str("path", path).Msg("Cannot open bulk source")
		return Report{Source: path, SourceErr: err}
	}
	defer src.Close()

	report := in.Ingest(ctx, src)
	report.Source = path
	return report
}

// Ingest teaches every row of src whose text and sentiment are both non-blank.
// Blank rows are counted as skipped; rows the store rejects are recorded and
// ingestion continues with the next row.
func (in *Ingester) Ingest(ctx context.Context, src Source) Report {
	var report Report

	for {
		if err := ctx.Err(); err != nil {
			report.SourceErr = err
			break
		}

		pair, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			in.logger.Warn().Int("row", rowErr.Row).Err(rowErr.Err).Msg("Skipping unreadable row")
			report.RowErrors = append(report.RowErrors, *rowErr)
			continue
		}
		if err != nil {
			report.SourceErr = fmt.Errorf("%w: %w", ErrMalformedSource, err)
			break
		}

		text := strings.TrimSpace(pair.Text)
		label := strings.TrimSpace(pair.Label)
		if text == "" || label == "" {
			in.logger.Debug().Int("row", pair.Row).Msg("Skipping row with blank field")
			report.Skipped++
			continue
		}

		if err := in.target.Teach(ctx, text, label); err != nil {
			in.logger.Warn().Int("row", pair.Row).Err(err).Msg("Failed to teach row")
			report.RowErrors = append(report.RowErrors, RowError{Row: pair.Row, Err: err})
			continue
		}
		report.Taught++
	}

	in.logger.Info().
		Int("taught", report.Taught).
		Int("skipped", report.Skipped).
		Int("errors", len(report.RowErrors)).
		Msg("Bulk ingestion finished")

	return report
}
