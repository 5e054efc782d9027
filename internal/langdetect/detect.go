// Package langdetect guesses the language of short texts from stopword
// coverage.
package langdetect

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"golang.org/x/text/language"
)

// Undetermined is the code reported when no language could be chosen
var Undetermined = language.Und.String()

// ErrUndetermined is returned when no candidate language explains the text
var ErrUndetermined = errors.New("language undetermined")

// Detector reports the ISO 639-1 code of a text's language
type Detector interface {
	Detect(text string) (string, error)
}

// supported lists the codes bbalet/stopwords ships lists for
var supported = map[string]bool{
	"ar": true, "bg": true, "cs": true, "da": true, "de": true, "el": true,
	"en": true, "es": true, "fa": true, "fi": true, "fr": true, "hu": true,
	"id": true, "it": true, "ja": true, "km": true, "lv": true, "nl": true,
	"no": true, "pl": true, "pt": true, "ro": true, "ru": true, "sk": true,
	"sv": true, "th": true, "tr": true,
}

// StopwordsDetector picks the candidate whose stopword list removes the most
// tokens. Ties go to the earlier candidate.
type StopwordsDetector struct {
	candidates []string
	isStopword func(word, lang string) bool
}

// NewStopwordsDetector validates candidates and returns a detector over them
func NewStopwordsDetector(candidates []string) (*StopwordsDetector, error) {
	codes, err := Canonicalize(candidates)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("no candidate languages")
	}
	return &StopwordsDetector{
		candidates: codes,
		isStopword: bbaletStopword,
	}, nil
}

// Candidates returns the canonical candidate codes in priority order
func (d *StopwordsDetector) Candidates() []string {
	return append([]string(nil), d.candidates...)
}

// Detect returns the best candidate code for text
func (d *StopwordsDetector) Detect(text string) (string, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return "", ErrUndetermined
	}

	best, bestScore := "", 0
	for _, lang := range d.candidates {
		score := 0
		for _, w := range words {
			if d.isStopword(w, lang) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}

	if bestScore == 0 {
		return "", ErrUndetermined
	}
	return best, nil
}

// Canonicalize parses language tags and reduces them to their base code.
// Duplicates are dropped, order is kept.
func Canonicalize(codes []string) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		tag, err := language.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", raw, err)
		}
		base, _ := tag.Base()
		code := base.String()
		if !supported[code] {
			return nil, fmt.Errorf("unsupported language %q", raw)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func bbaletStopword(word, lang string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, lang, false)) == ""
}
