package capture

import (
	"sync"
	"time"
)

// TopicCounters holds the per-topic reception totals.
type TopicCounters struct {
	Received uint64 `json:"received"`
	Bytes    uint64 `json:"bytes"`
}

// Snapshot is a consistent copy of the counters for external readers.
type Snapshot struct {
	Started time.Time                `json:"started"`
	Topics  map[string]TopicCounters `json:"topics"`
	Dropped uint64                   `json:"dropped"`
}

// Stats accumulates reception counters for the status endpoint and
// telemetry.
//
// The dispatcher is the only writer; the status HTTP handler reads
// concurrently via Snapshot, hence the mutex.
type Stats struct {
	mu      sync.Mutex
	started time.Time
	topics  map[string]TopicCounters
	dropped uint64
}

// NewStats creates an empty counter set with the start time recorded.
func NewStats() *Stats {
	return &Stats{
		started: time.Now(),
		topics:  make(map[string]TopicCounters),
	}
}

// RecordMessage counts one recorded publication for a topic.
func (s *Stats) RecordMessage(topic string, payloadBytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.topics[topic]
	c.Received++
	c.Bytes += uint64(payloadBytes)
	s.topics[topic] = c
}

// RecordDropped counts one message dropped for lacking a registry entry.
func (s *Stats) RecordDropped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped++
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics := make(map[string]TopicCounters, len(s.topics))
	for topic, c := range s.topics {
		topics[topic] = c
	}

	return Snapshot{
		Started: s.started,
		Topics:  topics,
		Dropped: s.dropped,
	}
}
