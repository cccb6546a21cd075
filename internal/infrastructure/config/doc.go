// Package config loads and validates mqtt-scribe configuration.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// MQTTSCRIBE_* environment variable overrides. The result is validated
// before use so the process never starts partially configured.
//
// The topic set is resolved separately via Config.ResolveTopics, which
// supports either an inline list or a one-topic-per-line text file.
package config
