// Package influxdb provides the optional message-throughput telemetry sink.
//
// When enabled, the dispatcher records one point per accepted publication
// (measurement mqtt_messages, tagged by topic, with the payload size).
// Writes go through the client library's non-blocking batched WriteAPI, so
// telemetry never sits on the dispatch critical path: a slow or unreachable
// InfluxDB degrades to dropped telemetry, reported via the async error
// callback, while the file and console sinks continue unaffected.
package influxdb
