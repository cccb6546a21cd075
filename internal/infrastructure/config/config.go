package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for mqtt-scribe.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Broker   BrokerConfig   `yaml:"broker"`
	Auth     AuthConfig     `yaml:"auth"`
	Session  SessionConfig  `yaml:"session"`
	Topics   TopicsConfig   `yaml:"topics"`
	Capture  CaptureConfig  `yaml:"capture"`
	Status   StatusConfig   `yaml:"status"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BrokerConfig contains MQTT broker connection details.
type BrokerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	TLS          bool   `yaml:"tls"`
	ClientID     string `yaml:"client_id"`
	KeepAlive    int    `yaml:"keep_alive"`
	CleanSession bool   `yaml:"clean_session"`
}

// AuthConfig contains MQTT authentication credentials.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SessionConfig contains client-side session tuning.
type SessionConfig struct {
	// ChannelCapacity is the depth of the internal notification channel
	// between the network callbacks and the dispatcher. Default: 100.
	ChannelCapacity int             `yaml:"channel_capacity"`
	Reconnect       ReconnectConfig `yaml:"reconnect"`
}

// ReconnectConfig contains reconnection settings.
//
// When Enabled is false, the first connection loss is terminal: the
// dispatcher's poll returns an error and the process exits.
type ReconnectConfig struct {
	Enabled      bool `yaml:"enabled"`
	InitialDelay int  `yaml:"initial_delay"`
	MaxDelay     int  `yaml:"max_delay"`
}

// TopicsConfig selects the topic set to subscribe and record.
//
// Exactly one of Names or File must be set. File points to a text file
// listing one topic per line; blank lines and surrounding whitespace are
// ignored.
type TopicsConfig struct {
	Names []string `yaml:"names"`
	File  string   `yaml:"file"`
}

// CaptureConfig contains settings for the per-topic log files.
type CaptureConfig struct {
	// LogDir is the directory under which <topic>.txt files are created.
	LogDir string `yaml:"log_dir"`
}

// StatusConfig contains the optional status/health HTTP endpoint settings.
type StatusConfig struct {
	Enabled  bool                `yaml:"enabled"`
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	Timeouts StatusTimeoutConfig `yaml:"timeouts"`
}

// StatusTimeoutConfig contains HTTP timeout settings in seconds.
type StatusTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// InfluxDBConfig contains InfluxDB connection settings for the optional
// throughput telemetry sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MQTTSCRIBE_SECTION_KEY
// For example: MQTTSCRIBE_BROKER_HOST, MQTTSCRIBE_CAPTURE_LOG_DIR
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Broker: BrokerConfig{
			Host:         "localhost",
			Port:         1883,
			ClientID:     "mqtt-scribe",
			KeepAlive:    5,
			CleanSession: false,
		},
		Session: SessionConfig{
			ChannelCapacity: 100,
			Reconnect: ReconnectConfig{
				Enabled:      false,
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Capture: CaptureConfig{
			LogDir: ".",
		},
		Status: StatusConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8080,
			Timeouts: StatusTimeoutConfig{
				Read:  30,
				Write: 60,
				Idle:  120,
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			URL:           "http://localhost:8086",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Only the settings that commonly differ between deployments are exposed.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MQTTSCRIBE_BROKER_HOST"); v != "" {
		cfg.Broker.Host = v
	}
	if v := os.Getenv("MQTTSCRIBE_BROKER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Broker.Port = port
		}
	}
	if v := os.Getenv("MQTTSCRIBE_BROKER_CLIENT_ID"); v != "" {
		cfg.Broker.ClientID = v
	}
	if v := os.Getenv("MQTTSCRIBE_AUTH_USERNAME"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("MQTTSCRIBE_AUTH_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
	if v := os.Getenv("MQTTSCRIBE_TOPICS_FILE"); v != "" {
		cfg.Topics.File = v
	}
	if v := os.Getenv("MQTTSCRIBE_CAPTURE_LOG_DIR"); v != "" {
		cfg.Capture.LogDir = v
	}
	if v := os.Getenv("MQTTSCRIBE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for invalid or missing values.
//
// Returns:
//   - error: Describing the first validation failure, or nil if valid
func (c *Config) Validate() error {
	if c.Broker.Host == "" {
		return fmt.Errorf("broker.host is required")
	}
	if c.Broker.Port <= 0 || c.Broker.Port > 65535 {
		return fmt.Errorf("broker.port must be between 1 and 65535, got %d", c.Broker.Port)
	}
	if c.Broker.KeepAlive <= 0 {
		return fmt.Errorf("broker.keep_alive must be positive, got %d", c.Broker.KeepAlive)
	}
	if c.Session.ChannelCapacity <= 0 {
		return fmt.Errorf("session.channel_capacity must be positive, got %d", c.Session.ChannelCapacity)
	}
	if len(c.Topics.Names) > 0 && c.Topics.File != "" {
		return fmt.Errorf("topics.names and topics.file are mutually exclusive")
	}
	if len(c.Topics.Names) == 0 && c.Topics.File == "" {
		return fmt.Errorf("either topics.names or topics.file is required")
	}
	for i, topic := range c.Topics.Names {
		if strings.TrimSpace(topic) == "" {
			return fmt.Errorf("topics.names[%d] is empty", i)
		}
	}
	if c.Capture.LogDir == "" {
		return fmt.Errorf("capture.log_dir is required")
	}
	if c.Status.Enabled {
		if c.Status.Port <= 0 || c.Status.Port > 65535 {
			return fmt.Errorf("status.port must be between 1 and 65535, got %d", c.Status.Port)
		}
	}
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" {
			return fmt.Errorf("influxdb.org is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			return fmt.Errorf("influxdb.bucket is required when influxdb is enabled")
		}
	}
	return nil
}

// ResolveTopics returns the ordered topic set to subscribe.
//
// When Topics.File is set, the file is read and parsed as one topic per
// line; surrounding whitespace is trimmed and blank lines are skipped.
// Otherwise Topics.Names is returned as configured.
//
// The resolved set is checked for duplicates: the registry holds exactly
// one file handle per topic, so a repeated topic is a configuration error.
//
// Returns:
//   - []string: Ordered, duplicate-free topic list
//   - error: If the topics file cannot be read or the set is invalid
func (c *Config) ResolveTopics() ([]string, error) {
	topics := c.Topics.Names

	if c.Topics.File != "" {
		data, err := os.ReadFile(c.Topics.File)
		if err != nil {
			return nil, fmt.Errorf("reading topics file: %w", err)
		}

		topics = nil
		for _, line := range strings.Split(string(data), "\n") {
			topic := strings.TrimSpace(line)
			if topic == "" {
				continue
			}
			topics = append(topics, topic)
		}
	}

	if len(topics) == 0 {
		return nil, fmt.Errorf("resolved topic set is empty")
	}

	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		if _, dup := seen[topic]; dup {
			return nil, fmt.Errorf("duplicate topic %q", topic)
		}
		seen[topic] = struct{}{}
	}

	return topics, nil
}
