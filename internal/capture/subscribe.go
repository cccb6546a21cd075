package capture

import (
	"fmt"

	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/logging"
)

// Subscriber issues subscribe commands to the broker connection.
// Implemented by the mqtt client.
type Subscriber interface {
	Subscribe(topic string) error
}

// InitSubscriptions issues one subscribe command per topic and builds the
// topic-file registry in lockstep.
//
// For each topic, in configured order:
//  1. Submit a QoS 2 subscribe command. A submission failure is reported
//     and skipped - the broker acknowledgement for the others still
//     arrives later, and the operator can restart to retry.
//  2. Open the topic's append-only log file. This is the one
//     unconditionally fatal step: the process must not run with some
//     topics unlogged.
//
// The file is opened regardless of the subscribe outcome, so a topic
// whose subscription later recovers is still captured.
//
// Parameters:
//   - sub: Broker command sink
//   - topics: Ordered, duplicate-free topic set
//   - dir: Directory for the per-topic log files
//   - log: Operator diagnostics
//
// Returns:
//   - *Registry: Populated registry, ready for the dispatcher
//   - error: If the topic set is empty or any log file cannot be opened
func InitSubscriptions(sub Subscriber, topics []string, dir string, log *logging.Logger) (*Registry, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	log.Info("selected topics", "topics", topics)

	reg := newRegistry(dir, len(topics))
	for _, topic := range topics {
		if err := sub.Subscribe(topic); err != nil {
			log.Warn("failed to subscribe", "topic", topic, "error", err)
		}

		if err := reg.open(topic); err != nil {
			// Partial registries are not allowed; release what was opened.
			reg.Close()
			return nil, fmt.Errorf("log file for topic %q: %w", topic, err)
		}
	}

	return reg, nil
}
