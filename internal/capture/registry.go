package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// fileSuffix is appended to the topic name to form the log file name.
const fileSuffix = ".txt"

// logFileMode is the permission set for created log files and directories.
const (
	logFileMode = 0o644
	logDirMode  = 0o755
)

// Registry maps each subscribed topic to its open append-only log file.
//
// It is built once at startup by InitSubscriptions, holds exactly one
// entry per configured topic, and is never mutated afterwards: the
// dispatcher and writer only read it, so no locking is needed. Handles
// are closed only on process exit via Close.
type Registry struct {
	dir    string
	topics []string
	files  map[string]*os.File
}

// newRegistry returns an empty registry rooted at dir.
func newRegistry(dir string, capacity int) *Registry {
	return &Registry{
		dir:   dir,
		files: make(map[string]*os.File, capacity),
	}
}

// open creates or opens the topic's log file in append mode and adds it
// to the registry. Topics containing '/' get matching subdirectories.
func (r *Registry) open(topic string) error {
	path := r.FilePath(topic)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, logDirMode); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	r.topics = append(r.topics, topic)
	r.files[topic] = f
	return nil
}

// FilePath returns the log file path derived from the topic name:
// <dir>/<topic>.txt.
func (r *Registry) FilePath(topic string) string {
	return filepath.Join(r.dir, topic+fileSuffix)
}

// Lookup returns the open file for a topic. A miss means the message
// belongs to no configured topic and must be surfaced as an anomaly by
// the caller.
func (r *Registry) Lookup(topic string) (*os.File, bool) {
	f, ok := r.files[topic]
	return f, ok
}

// Topics returns the registered topics in subscription issuance order.
func (r *Registry) Topics() []string {
	return r.topics
}

// Len returns the number of registered topics.
func (r *Registry) Len() int {
	return len(r.files)
}

// Close closes all log file handles. Called once at process exit; any
// close errors are joined and returned.
func (r *Registry) Close() error {
	var errs []error
	for topic, f := range r.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log file for %q: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}
