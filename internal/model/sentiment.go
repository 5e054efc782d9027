package model

import "fmt"

// Sentiment is the result of a single classification
type Sentiment struct {
	Label      string  `json:"label" yaml:"label"`           // Detected sentiment name
	Confidence float64 `json:"confidence" yaml:"confidence"` // Classifier certainty in [0, 1]
}

// NewSentiment builds a Sentiment with the confidence clamped to [0, 1]
func NewSentiment(label string, confidence float64) Sentiment {
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}
	return Sentiment{Label: label, Confidence: confidence}
}

// String renders the message handed to speech sinks
func (s Sentiment) String() string {
	return fmt.Sprintf("Sentiment: %s (Confidence: %.2f)", s.Label, s.Confidence)
}

// Source identifies which stage produced a Sentiment
type Source string

const (
	SourceExample  Source = "example"  // Matched a taught example phrase
	SourceKeyword  Source = "keyword"  // Matched the fixed keyword rule
	SourceDefault  Source = "default"  // Nothing matched, neutral default
	SourceExternal Source = "external" // Answered by an external classifier
)

// Result is the complete output of analyzing one text
type Result struct {
	Index     int       `json:"index" yaml:"index"`                           // Position in a batch (0 for single texts)
	Text      string    `json:"text" yaml:"text"`                             // Input as submitted
	Sentiment Sentiment `json:"sentiment" yaml:"sentiment"`                   // Label and confidence
	Source    Source    `json:"source" yaml:"source"`                         // Stage that answered
	Language  string    `json:"language,omitempty" yaml:"language,omitempty"` // Detected language code, "und" if unknown
}
