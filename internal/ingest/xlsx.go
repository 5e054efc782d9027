package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// xlsxSource reads pairs from one sheet of a workbook
type xlsxSource struct {
	rows [][]string
	cols columns
	next int
}

func openXLSX(path, sheet string) (*xlsxSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedSource)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrMalformedSource, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMalformedSource, sheet)
	}

	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	return &xlsxSource{
		rows: rows,
		cols: cols,
		next: 1,
	}, nil
}

func (s *xlsxSource) Next() (Pair, error) {
	if s.next >= len(s.rows) {
		return Pair{}, io.EOF
	}
	record := s.rows[s.next]
	s.next++
	return s.cols.pair(s.next, record), nil
}

func (s *xlsxSource) Close() error {
	return nil
}
