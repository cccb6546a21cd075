package capture

import (
	"fmt"
	"io"

	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/logging"
)

// Writer records one publication to both sinks: the topic's append-only
// log file and the colorized console mirror.
//
// Durability contract: every file record is synced to disk before Write
// returns, so a crash never loses an acknowledged message. This trades
// throughput for durability on purpose; the arrival rate of a logging
// bridge is far below disk sync rates.
type Writer struct {
	registry *Registry
	console  io.Writer
	log      *logging.Logger
}

// NewWriter creates a dual-sink writer over the given registry.
//
// Parameters:
//   - registry: Topic-file registry built by InitSubscriptions
//   - console: The console stream (stdout in production)
//   - log: Operator diagnostics for anomalies
func NewWriter(registry *Registry, console io.Writer, log *logging.Logger) *Writer {
	return &Writer{
		registry: registry,
		console:  console,
		log:      log,
	}
}

// Write appends the publication to its topic file, then mirrors it to the
// console.
//
// File sink: on a registry hit, the record is plain-timestamp + payload +
// newline, written and synced before the console sees anything. On a miss
// the message is dropped with an operator warning naming the topic; this
// is recoverable and recorded=false is returned.
//
// Console sink: written unconditionally as colorized-timestamp + blue
// topic tag + payload + newline, in a single write call. Payload bytes
// pass through verbatim in both sinks, embedded newlines included.
//
// Ordering: for one publication the file write happens before the console
// write, and the caller processes one publication at a time, so records
// never interleave.
//
// Parameters:
//   - ts: The reception instant, captured once by the caller
//   - topic: The publication's topic
//   - payload: Raw payload bytes
//
// Returns:
//   - bool: true if the file sink recorded the message
//   - error: A sink I/O failure; unrecoverable, the caller must terminate
func (w *Writer) Write(ts Timestamp, topic string, payload []byte) (bool, error) {
	recorded := false

	if f, ok := w.registry.Lookup(topic); ok {
		stamp := ts.Plain()
		record := make([]byte, 0, len(stamp)+len(payload)+1)
		record = append(record, stamp...)
		record = append(record, payload...)
		record = append(record, '\n')

		if _, err := f.Write(record); err != nil {
			return false, fmt.Errorf("%w: appending to %s: %w", ErrFileSink, w.registry.FilePath(topic), err)
		}
		if err := f.Sync(); err != nil {
			return false, fmt.Errorf("%w: syncing %s: %w", ErrFileSink, w.registry.FilePath(topic), err)
		}
		recorded = true
	} else {
		w.log.Warn("received message for topic without a log file", "topic", topic)
	}

	stamp := ts.Colored()
	tag := topicTag(topic)
	line := make([]byte, 0, len(stamp)+len(tag)+len(payload)+1)
	line = append(line, stamp...)
	line = append(line, tag...)
	line = append(line, payload...)
	line = append(line, '\n')

	if _, err := w.console.Write(line); err != nil {
		return recorded, fmt.Errorf("%w: %w", ErrConsoleSink, err)
	}

	return recorded, nil
}
