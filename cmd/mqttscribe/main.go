// mqtt-scribe - subscriber-side MQTT logging bridge
//
// This is the main entry point for mqtt-scribe. The program connects to an
// MQTT broker, subscribes to a configured topic set at QoS 2, appends every
// received publication to a per-topic log file with a millisecond
// timestamp, and mirrors each record to stdout with ANSI color annotation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/mqtt-scribe/internal/api"
	"github.com/nerrad567/mqtt-scribe/internal/capture"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/config"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/influxdb"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/logging"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting mqtt-scribe",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Resolve the topic set (inline list or topics file)
	topics, err := cfg.ResolveTopics()
	if err != nil {
		return fmt.Errorf("resolving topics: %w", err)
	}

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(mqtt.Config{
		Broker:  cfg.Broker,
		Auth:    cfg.Auth,
		Session: cfg.Session,
	})
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
	)

	// Issue subscriptions and open the per-topic log files
	registry, err := capture.InitSubscriptions(mqttClient, topics, cfg.Capture.LogDir, log)
	if err != nil {
		return fmt.Errorf("initialising capture: %w", err)
	}
	defer func() {
		log.Info("closing log files")
		if closeErr := registry.Close(); closeErr != nil {
			log.Error("error closing log files", "error", closeErr)
		}
	}()

	stats := capture.NewStats()
	writer := capture.NewWriter(registry, os.Stdout, log)
	dispatcher := capture.NewDispatcher(writer, stats, log)

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		dispatcher.SetTelemetry(influxClient)
	}

	// Start the status endpoint (optional)
	if cfg.Status.Enabled {
		statusServer, statusErr := api.New(api.Deps{
			Config:  cfg.Status,
			Logger:  log,
			Stats:   stats,
			Broker:  mqttClient,
			Version: version,
		})
		if statusErr != nil {
			return fmt.Errorf("creating status server: %w", statusErr)
		}
		statusServer.Start()
		defer func() {
			log.Info("stopping status server")
			if closeErr := statusServer.Close(); closeErr != nil {
				log.Error("error stopping status server", "error", closeErr)
			}
		}()
	}

	// Run the event loop; a transport error is terminal and becomes the
	// process exit status.
	err = dispatcher.Run(ctx, mqttClient)
	if errors.Is(err, context.Canceled) {
		log.Info("shutdown signal received")
		return nil
	}
	return err
}

// getConfigPath returns the configuration file path.
// Uses MQTTSCRIBE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MQTTSCRIBE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
