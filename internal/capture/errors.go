package capture

import "errors"

// Sentinel errors for the capture pipeline.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoTopics is returned when initialization is attempted with an
	// empty topic set.
	ErrNoTopics = errors.New("capture: no topics configured")

	// ErrFileSink wraps a failed append or sync on a topic log file.
	// It is unrecoverable: a silently lost record is worse than exiting.
	ErrFileSink = errors.New("capture: file sink write failed")

	// ErrConsoleSink wraps a failed write to the console mirror.
	ErrConsoleSink = errors.New("capture: console sink write failed")
)
