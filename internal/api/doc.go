// Package api provides the optional read-only status HTTP endpoint.
//
// Two routes under /api/v1: /health reports broker connectivity for
// liveness probes, /status returns per-topic reception counters, dropped
// message count, and uptime. The endpoint observes the capture pipeline
// through a Stats snapshot; it never touches the registry or the sinks.
package api
