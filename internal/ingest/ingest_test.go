package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/feels/internal/learner"
	"github.com/ppiankov/feels/internal/storage"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newStore(t *testing.T) *learner.Store {
	t.Helper()
	return learner.New(storage.NewMemoryStore(), learner.WithLogger(zerolog.Nop()))
}

func TestIngestFile_CSVSkipsBlankSentiment(t *testing.T) {
	path := writeFile(t, "data.csv", "text,sentiment\nme encanta,Alegría\nno sé,\nodio esto,Enojo\n")
	store := newStore(t)

	report := NewIngester(store, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 2, report.Taught)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.RowErrors)
	assert.Equal(t, []string{"Alegría", "Enojo"}, store.Labels())
	assert.Equal(t, 2, store.Len())
}

func TestIngestFile_TSVAndColumnOrder(t *testing.T) {
	path := writeFile(t, "data.tsv", "id\tSentiment\tTEXT\n1\tCalma\tel mar\n2\tMiedo\tla noche\n")
	store := newStore(t)

	report := NewIngester(store, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 2, report.Taught)
	assert.Equal(t, "Calma", store.Classify("el mar").Label)
	assert.Equal(t, "Miedo", store.Classify("la noche").Label)
}

func TestIngestFile_BOMHeader(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufefftext,sentiment\nhola,Alegría\n")
	report := NewIngester(newStore(t), zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 1, report.Taught)
}

func TestIngestFile_MissingColumn(t *testing.T) {
	path := writeFile(t, "bad.csv", "text,label\nhola,Alegría\n")
	store := newStore(t)

	report := NewIngester(store, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.Error(t, report.SourceErr)
	assert.ErrorIs(t, report.SourceErr, ErrMalformedSource)
	assert.Contains(t, report.SourceErr.Error(), "sentiment")
	assert.Zero(t, report.Taught)
	assert.Zero(t, store.Len())
}

func TestIngestFile_Unreadable(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") }},
		{"empty file", func(t *testing.T) string { return writeFile(t, "empty.csv", "") }},
		{"unsupported extension", func(t *testing.T) string { return writeFile(t, "data.json", "{}") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewIngester(newStore(t), zerolog.Nop()).IngestFile(context.Background(), tt.path(t), Options{})
			assert.ErrorIs(t, report.SourceErr, ErrMalformedSource)
		})
	}
}

func TestIngestFile_ShortRowsAndWhitespace(t *testing.T) {
	path := writeFile(t, "ragged.csv", "text,sentiment\nsolo texto\n  ,Tristeza\n  la lluvia  ,  Tristeza \n")
	store := newStore(t)

	report := NewIngester(store, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 1, report.Taught)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []string{"Tristeza"}, store.Labels())
}

func TestIngestFile_BadQuoteContinues(t *testing.T) {
	path := writeFile(t, "quotes.csv", "text,sentiment\nbien,Alegría\nmal \"dato,Tristeza\nfin,Calma\n")
	store := newStore(t)

	report := NewIngester(store, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 2, report.Taught)
	require.Len(t, report.RowErrors, 1)
	assert.Equal(t, 3, report.RowErrors[0].Row)
	assert.Len(t, report.Warnings(), 1)
}

func TestIngestFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"text", "sentiment"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"me encanta", "Alegría"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"nada", ""}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"tengo miedo", "Miedo"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	store := newStore(t)
	report := NewIngester(store, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 2, report.Taught)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{"Alegría", "Miedo"}, store.Labels())
}

func TestIngestFile_XLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Datos")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Datos", "A1", &[]interface{}{"sentiment", "text"}))
	require.NoError(t, f.SetSheetRow("Datos", "A2", &[]interface{}{"Calma", "el río"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	store := newStore(t)
	ing := NewIngester(store, zerolog.Nop())

	report := ing.IngestFile(context.Background(), path, Options{Sheet: "Datos"})
	require.NoError(t, report.SourceErr)
	assert.Equal(t, 1, report.Taught)
	assert.Equal(t, "Calma", store.Classify("el río").Label)

	report = ing.IngestFile(context.Background(), path, Options{Sheet: "Falta"})
	assert.ErrorIs(t, report.SourceErr, ErrMalformedSource)
}

type flakyTarget struct {
	calls int
}

func (f *flakyTarget) Teach(_ context.Context, text, _ string) error {
	f.calls++
	if text == "falla" {
		return errors.New("boom")
	}
	return nil
}

func TestIngest_TeachErrorContinues(t *testing.T) {
	path := writeFile(t, "data.csv", "text,sentiment\nuno,A\nfalla,B\ndos,C\n")
	target := &flakyTarget{}

	report := NewIngester(target, zerolog.Nop()).IngestFile(context.Background(), path, Options{})

	require.NoError(t, report.SourceErr)
	assert.Equal(t, 3, target.calls)
	assert.Equal(t, 2, report.Taught)
	require.Len(t, report.RowErrors, 1)
	assert.Equal(t, 3, report.RowErrors[0].Row)
}

func TestIngest_CanceledContext(t *testing.T) {
	path := writeFile(t, "data.csv", "text,sentiment\nuno,A\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewIngester(&flakyTarget{}, zerolog.Nop()).IngestFile(ctx, path, Options{})

	assert.ErrorIs(t, report.SourceErr, context.Canceled)
	assert.Zero(t, report.Taught)
}
