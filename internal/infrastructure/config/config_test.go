package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `
broker:
  host: "broker.local"
  port: 1883
  client_id: "scribe-test"

topics:
  names:
    - "sensors/temp"
    - "sensors/humidity"

capture:
  log_dir: "/tmp/logs"
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.Host != "broker.local" {
		t.Errorf("Broker.Host = %q, want %q", cfg.Broker.Host, "broker.local")
	}
	want := []string{"sensors/temp", "sensors/humidity"}
	if !reflect.DeepEqual(cfg.Topics.Names, want) {
		t.Errorf("Topics.Names = %v, want %v", cfg.Topics.Names, want)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.KeepAlive != 5 {
		t.Errorf("Broker.KeepAlive = %d, want 5", cfg.Broker.KeepAlive)
	}
	if cfg.Session.ChannelCapacity != 100 {
		t.Errorf("Session.ChannelCapacity = %d, want 100", cfg.Session.ChannelCapacity)
	}
	if cfg.Session.Reconnect.Enabled {
		t.Error("Session.Reconnect.Enabled = true, want false by default")
	}
	if cfg.Status.Enabled {
		t.Error("Status.Enabled = true, want false by default")
	}
	if cfg.InfluxDB.Enabled {
		t.Error("InfluxDB.Enabled = true, want false by default")
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Logging.Output = %q, want %q", cfg.Logging.Output, "stderr")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "broker: [not a mapping"))
	if err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MQTTSCRIBE_BROKER_HOST", "override.local")
	t.Setenv("MQTTSCRIBE_BROKER_PORT", "8883")
	t.Setenv("MQTTSCRIBE_CAPTURE_LOG_DIR", "/var/log/scribe")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.Host != "override.local" {
		t.Errorf("Broker.Host = %q, want env override", cfg.Broker.Host)
	}
	if cfg.Broker.Port != 8883 {
		t.Errorf("Broker.Port = %d, want 8883", cfg.Broker.Port)
	}
	if cfg.Capture.LogDir != "/var/log/scribe" {
		t.Errorf("Capture.LogDir = %q, want env override", cfg.Capture.LogDir)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := defaultConfig()
		cfg.Topics.Names = []string{"sensors/temp"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Broker.Host = "" },
			wantErr: "broker.host",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Broker.Port = 70000 },
			wantErr: "broker.port",
		},
		{
			name:    "zero keep alive",
			mutate:  func(c *Config) { c.Broker.KeepAlive = 0 },
			wantErr: "broker.keep_alive",
		},
		{
			name:    "no topics",
			mutate:  func(c *Config) { c.Topics.Names = nil },
			wantErr: "topics.names or topics.file",
		},
		{
			name: "both topic sources",
			mutate: func(c *Config) {
				c.Topics.File = "topics.txt"
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "empty topic entry",
			mutate:  func(c *Config) { c.Topics.Names = []string{"sensors/temp", "  "} },
			wantErr: "is empty",
		},
		{
			name:    "empty log dir",
			mutate:  func(c *Config) { c.Capture.LogDir = "" },
			wantErr: "capture.log_dir",
		},
		{
			name: "influx enabled without org",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Org = ""
			},
			wantErr: "influxdb.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveTopics_Inline(t *testing.T) {
	cfg := defaultConfig()
	cfg.Topics.Names = []string{"a/b", "c/d"}

	topics, err := cfg.ResolveTopics()
	if err != nil {
		t.Fatalf("ResolveTopics() error = %v", err)
	}
	if !reflect.DeepEqual(topics, []string{"a/b", "c/d"}) {
		t.Errorf("ResolveTopics() = %v", topics)
	}
}

func TestResolveTopics_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	content := "sensors/temp\n\n  sensors/humidity  \nactuators/valve\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write topics file: %v", err)
	}

	cfg := defaultConfig()
	cfg.Topics.File = path

	topics, err := cfg.ResolveTopics()
	if err != nil {
		t.Fatalf("ResolveTopics() error = %v", err)
	}

	want := []string{"sensors/temp", "sensors/humidity", "actuators/valve"}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("ResolveTopics() = %v, want %v", topics, want)
	}
}

func TestResolveTopics_FileMissing(t *testing.T) {
	cfg := defaultConfig()
	cfg.Topics.File = "/nonexistent/topics.txt"

	_, err := cfg.ResolveTopics()
	if err == nil {
		t.Fatal("ResolveTopics() expected error for missing file")
	}
}

func TestResolveTopics_Duplicate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Topics.Names = []string{"sensors/temp", "sensors/temp"}

	_, err := cfg.ResolveTopics()
	if err == nil {
		t.Fatal("ResolveTopics() expected error for duplicate topic")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("ResolveTopics() error = %v, want duplicate error", err)
	}
}

func TestResolveTopics_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	if err := os.WriteFile(path, []byte("\n  \n"), 0600); err != nil {
		t.Fatalf("failed to write topics file: %v", err)
	}

	cfg := defaultConfig()
	cfg.Topics.File = path

	_, err := cfg.ResolveTopics()
	if err == nil {
		t.Fatal("ResolveTopics() expected error for empty topic set")
	}
}
