package capture

import (
	"context"
	"errors"

	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/logging"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/mqtt"
)

// Source yields broker notifications in arrival order.
// Implemented by the mqtt client; faked in tests.
type Source interface {
	Next(ctx context.Context) (mqtt.Event, error)
}

// Telemetry records throughput points for accepted publications.
// Implemented by the influxdb client.
type Telemetry interface {
	WriteMessagePoint(topic string, payloadBytes int)
}

// Dispatcher is the long-running event loop at the heart of the bridge.
//
// It polls one notification at a time from the source and processes it to
// completion - both sink writes included - before polling again. This
// single-threaded discipline gives per-message atomicity of the dual-sink
// write and a total order of log records matching arrival order.
//
// The loop has two states: running, and terminated by the first transport
// error or sink write failure. There is no internal retry; restarting the
// process is the recovery path.
type Dispatcher struct {
	writer *Writer
	stats  *Stats
	log    *logging.Logger

	// telemetry is optional; nil disables throughput recording.
	telemetry Telemetry
}

// NewDispatcher creates a dispatcher over the given writer and counters.
func NewDispatcher(writer *Writer, stats *Stats, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		writer: writer,
		stats:  stats,
		log:    log,
	}
}

// SetTelemetry enables per-message throughput recording.
// Must be called before Run.
func (d *Dispatcher) SetTelemetry(t Telemetry) {
	d.telemetry = t
}

// Run polls the source until it fails or the context is cancelled.
//
// Exactly one poll is outstanding at a time. A poll error is terminal:
// it is logged with full detail and returned, ending the loop with no
// further notification processed. A sink write failure terminates the
// same way, since silently dropping a log record is worse than exiting.
//
// Parameters:
//   - ctx: Aborts the blocking poll on shutdown signals
//   - src: The broker notification source
//
// Returns:
//   - error: The terminal transport or sink error (context.Canceled on
//     clean shutdown)
func (d *Dispatcher) Run(ctx context.Context, src Source) error {
	for {
		ev, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				d.log.Debug("poll aborted", "error", err)
			} else {
				d.log.Error("transport poll failed", "error", err)
			}
			return err
		}

		if err := d.dispatch(ev); err != nil {
			d.log.Error("sink write failed", "error", err)
			return err
		}
	}
}

// dispatch routes one notification by kind. A nil return continues the
// loop; an error terminates it.
func (d *Dispatcher) dispatch(ev mqtt.Event) error {
	switch ev.Kind {
	case mqtt.EventPublish:
		// One instant per message, shared by both sinks.
		ts := Now()

		recorded, err := d.writer.Write(ts, ev.Topic, ev.Payload)
		if err != nil {
			return err
		}

		if recorded {
			d.stats.RecordMessage(ev.Topic, len(ev.Payload))
			if d.telemetry != nil {
				d.telemetry.WriteMessagePoint(ev.Topic, len(ev.Payload))
			}
		} else {
			d.stats.RecordDropped()
		}

	case mqtt.EventSubAck:
		for _, result := range ev.Results {
			if !result.Failed() {
				continue
			}
			if result.Topic != "" {
				d.log.Warn("broker rejected subscription", "topic", result.Topic)
			} else {
				d.log.Warn("got a subscribe fail packet")
			}
		}

	case mqtt.EventConnAck:
		d.log.Info("connection established")

	case mqtt.EventDisconnect:
		d.log.Info("disconnected from broker", "reason", ev.Reason)

	default:
		// Other notification kinds carry nothing to record.
	}

	return nil
}
