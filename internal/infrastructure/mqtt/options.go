package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultSubscribeTimeout is the maximum time to wait for a SUBACK
	// before the grant is reported as failed.
	defaultSubscribeTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// subscribeQoS is the QoS level for all subscriptions. Exactly-once
	// delivery: the broker deduplicates, the files record each message once.
	subscribeQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho MQTT options from mqtt-scribe config.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on TLS setting)
//   - Client ID (generated with a random suffix when not configured)
//   - Authentication credentials (if provided)
//   - Clean session mode and keep-alive from config
//   - Auto-reconnect with backoff, only when enabled in config
//   - TLS configuration (if enabled)
func buildClientOptions(cfg Config) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	// Broker URL
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)
	opts.AddBroker(brokerURL)

	// Client identification
	clientID := cfg.Broker.ClientID
	if clientID == "" {
		clientID = "mqtt-scribe-" + uuid.New().String()[:8]
	}
	opts.SetClientID(clientID)

	// Authentication (if credentials provided)
	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(cfg.Broker.CleanSession)

	// Keepalive - broker pings to detect dead connections
	opts.SetKeepAlive(time.Duration(cfg.Broker.KeepAlive) * time.Second)

	// Connection timeout for the initial attempt
	opts.SetConnectTimeout(defaultConnectTimeout)

	// Reconnection is the transport layer's concern. When disabled, a lost
	// connection is delivered to the dispatcher as a terminal poll error.
	opts.SetAutoReconnect(cfg.Session.Reconnect.Enabled)
	if cfg.Session.Reconnect.Enabled {
		opts.SetConnectRetryInterval(time.Duration(cfg.Session.Reconnect.InitialDelay) * time.Second)
		opts.SetMaxReconnectInterval(time.Duration(cfg.Session.Reconnect.MaxDelay) * time.Second)
	}

	// Deliver messages to handlers in arrival order; the dispatcher relies
	// on this for the per-file ordering guarantee.
	opts.SetOrderMatters(true)

	// TLS configuration if enabled
	if cfg.Broker.TLS {
		tlsConfig := &tls.Config{
			MinVersion: tlsMinVersion,
		}
		opts.SetTLSConfig(tlsConfig)
	}

	return opts
}
