package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Column names every bulk source must carry
const (
	TextColumn  = "text"
	LabelColumn = "sentiment"
)

// ErrMalformedSource is returned when a source cannot be opened or lacks the
// required columns
var ErrMalformedSource = errors.New("malformed bulk source")

// Pair is one (text, label) row of a bulk source
type Pair struct {
	Row   int // 1-based row number, the header being row 1
	Text  string
	Label string
}

// RowError describes a single row that could not be read or taught
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Source yields pairs in source order. Next returns io.EOF when exhausted and a
// *RowError for a row that could not be parsed; reading may continue after a
// *RowError. Any other error ends the source.
type Source interface {
	Next() (Pair, error)
	Close() error
}

// Options configure how a source is opened
type Options struct {
	Sheet string // XLSX sheet name; the first sheet when empty
}

// Open picks a reader by file extension
func Open(path string, opts Options) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return openCSV(path, ',')
	case ".tsv":
		return openCSV(path, '\t')
	case ".xlsx", ".xlsm":
		return openXLSX(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (supported: .csv, .tsv, .xlsx)", ErrMalformedSource, filepath.Ext(path))
	}
}

// columns locates the text and sentiment columns in a header row
type columns struct {
	text  int
	label int
}

func findColumns(header []string) (columns, error) {
	cols := columns{text: -1, label: -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case TextColumn:
			if cols.text < 0 {
				cols.text = i
			}
		case LabelColumn:
			if cols.label < 0 {
				cols.label = i
			}
		}
	}

	var missing []string
	if cols.text < 0 {
		missing = append(missing, TextColumn)
	}
	if cols.label < 0 {
		missing = append(missing, LabelColumn)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing column(s) %s", ErrMalformedSource, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) pair(row int, record []string) Pair {
	return Pair{
		Row:   row,
		Text:  cell(record, c.text),
		Label: cell(record, c.label),
	}
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
