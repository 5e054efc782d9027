package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	d, err := NewStopwordsDetector([]string{"es", "en"})
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"spanish", "el perro de la casa está en el jardín con nosotros", "es"},
		{"english", "the dog is in the house with my friend", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Detect(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Undetermined(t *testing.T) {
	d, err := NewStopwordsDetector([]string{"es", "en"})
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "12345 !!!", "xyzzy qwrtp"} {
		_, err := d.Detect(text)
		assert.ErrorIs(t, err, ErrUndetermined, "text %q", text)
	}
}

func TestDetect_TieGoesToFirstCandidate(t *testing.T) {
	stop := map[string]map[string]bool{
		"pt": {"de": true, "a": true},
		"es": {"de": true, "la": true},
	}
	d := &StopwordsDetector{
		candidates: []string{"pt", "es"},
		isStopword: func(word, lang string) bool { return stop[lang][word] },
	}

	got, err := d.Detect("de nada")
	require.NoError(t, err)
	assert.Equal(t, "pt", got)

	got, err = d.Detect("de la nada")
	require.NoError(t, err)
	assert.Equal(t, "es", got)
}

func TestCanonicalize(t *testing.T) {
	got, err := Canonicalize([]string{"es-MX", "EN", "es", " pt-BR "})
	require.NoError(t, err)
	assert.Equal(t, []string{"es", "en", "pt"}, got)

	_, err = Canonicalize([]string{"not a tag!"})
	assert.Error(t, err)

	_, err = Canonicalize([]string{"zu"})
	assert.ErrorContains(t, err, "unsupported")
}

func TestNewStopwordsDetector_NoCandidates(t *testing.T) {
	_, err := NewStopwordsDetector(nil)
	assert.Error(t, err)
}

func TestUndetermined(t *testing.T) {
	assert.Equal(t, "und", Undetermined)
}
