package learner

import (
	"strings"

	"github.com/ppiankov/feels/internal/model"
)

const (
	// ExampleConfidence is reported for any taught-example match
	ExampleConfidence = 0.99

	keywordConfidence = 0.9
	neutralConfidence = 0.5
)

// keywordRule is one entry of the fixed fallback rule
type keywordRule struct {
	label    string
	keywords []string
}

// Rules are evaluated in order; the first rule with any keyword present wins
var keywordRules = []keywordRule{
	{label: "Felicidad", keywords: []string{"feliz", "eufórico"}},
	{label: "Tristeza", keywords: []string{"triste", "ganas de nada"}},
}

// Fallback applies the keyword rule to already normalized (lowercased) text
func Fallback(normalized string) (model.Sentiment, model.Source) {
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return model.NewSentiment(rule.label, keywordConfidence), model.SourceKeyword
			}
		}
	}
	return model.NewSentiment("Neutral", neutralConfidence), model.SourceDefault
}
