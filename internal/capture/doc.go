// Package capture implements the message-reception and dual-sink
// persistence pipeline.
//
// Data flow:
//
//	InitSubscriptions → Registry → Dispatcher → Writer → (topic file, console)
//
// InitSubscriptions issues one QoS 2 subscribe per configured topic and
// opens the matching <topic>.txt append file in lockstep; the resulting
// Registry is immutable for the rest of the run. The Dispatcher then polls
// the broker notification source one event at a time: each publication is
// timestamped once and handed to the Writer, which appends it to the
// topic's file (synced to disk before returning) and mirrors it to the
// console with ANSI color annotation.
//
// # Invariants
//
//   - Every accepted publication is attributed to exactly one file.
//   - Both sinks render the same captured instant for a given message.
//   - Records in a topic file appear in broker arrival order, never
//     interleaved, because the loop is single-threaded and processes one
//     notification to completion per iteration.
//   - A transport poll error or sink I/O error terminates the loop;
//     recoverable anomalies (unknown topic, rejected subscription) are
//     logged and the loop continues.
package capture
