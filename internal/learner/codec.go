package learner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const snapshotVersion = 1

// Category is one label and the phrases taught for it, in teaching order
type Category struct {
	Label   string   `json:"label" yaml:"label"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// snapshot is the persisted form. Labels are a list rather than an object so
// that their insertion order survives a round trip.
type snapshot struct {
	Version int        `json:"version"`
	Labels  []Category `json:"labels"`
}

// errTruncated marks blobs that ended before a complete value was read
var errTruncated = errors.New("examples blob is empty or truncated")

func encode(categories []Category) ([]byte, error) {
	snap := snapshot{
		Version: snapshotVersion,
		Labels:  categories,
	}
	if snap.Labels == nil {
		snap.Labels = []Category{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal examples: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]Category, error) {
	var snap snapshot

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		// io.EOF: nothing but whitespace; io.ErrUnexpectedEOF: a torn write
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errTruncated
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptState, snap.Version)
	}

	seen := make(map[string]bool, len(snap.Labels))
	categories := make([]Category, 0, len(snap.Labels))
	for _, c := range snap.Labels {
		if c.Label == "" {
			return nil, fmt.Errorf("%w: empty label", ErrCorruptState)
		}
		if seen[c.Label] {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrCorruptState, c.Label)
		}
		seen[c.Label] = true

		// Labels only exist while they hold at least one phrase
		if len(c.Phrases) == 0 {
			continue
		}
		categories = append(categories, c)
	}

	return categories, nil
}
