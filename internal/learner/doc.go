// Package learner implements the incremental, example-based sentiment
// classifier.
//
// A Store accumulates (text, label) examples taught by the user, persists the
// full set after every change, and classifies new text by bidirectional
// substring matching against those examples. Labels are scanned in the order
// they were first taught and phrases in the order they were added; the first
// match wins with confidence 0.99. When nothing matches, a fixed keyword rule
// answers instead.
package learner
