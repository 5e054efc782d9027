package learner

// Corrector normalizes spelling before text is stored or matched
type Corrector interface {
	Correct(text string) string
}

// CorrectorFunc adapts a plain function to Corrector
type CorrectorFunc func(string) string

// Correct calls f(text)
func (f CorrectorFunc) Correct(text string) string {
	return f(text)
}

// NoopCorrector returns text unchanged. It is the default until a real
// spelling corrector is plugged in.
type NoopCorrector struct{}

// Correct returns text unchanged
func (NoopCorrector) Correct(text string) string {
	return text
}
