// Package logging provides structured operator diagnostics for mqtt-scribe.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, plus default service/version attributes. All of the runtime
// anomaly reporting (subscribe failures, unknown-topic messages, transport
// errors) flows through this package, keeping stdout free for the
// colorized message mirror.
package logging
