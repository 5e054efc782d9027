package learner

import "errors"

var (
	// ErrEmptyText is returned by Teach when the text is blank
	ErrEmptyText = errors.New("example text is empty")

	// ErrEmptyLabel is returned by Teach when the label is blank
	ErrEmptyLabel = errors.New("example label is empty")

	// ErrPersist wraps failures writing the examples blob
	ErrPersist = errors.New("persist examples")

	// ErrStorage wraps failures reading the examples blob
	ErrStorage = errors.New("read examples")

	// ErrCorruptState is returned by Load when the blob is neither missing nor
	// truncated but still cannot be decoded
	ErrCorruptState = errors.New("persisted examples are corrupt")
)
