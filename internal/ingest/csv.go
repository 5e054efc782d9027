package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// csvSource reads pairs from a delimited text file
type csvSource struct {
	file   *os.File
	reader *csv.Reader
	cols   columns
	row    int
}

func openCSV(path string, comma rune) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // ragged rows are handled per row
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		_ = file.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedSource)
		}
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformedSource, err)
	}

	cols, err := findColumns(header)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &csvSource{
		file:   file,
		reader: reader,
		cols:   cols,
		row:    1,
	}, nil
}

func (s *csvSource) Next() (Pair, error) {
	record, err := s.reader.Read()
	s.row++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Pair{}, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return Pair{}, &RowError{Row: s.row, Err: parseErr.Err}
		}
		return Pair{}, err
	}
	return s.cols.pair(s.row, record), nil
}

func (s *csvSource) Close() error {
	return s.file.Close()
}
