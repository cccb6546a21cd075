package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/config"
)

// Config groups the configuration sections the MQTT client needs.
type Config struct {
	Broker  config.BrokerConfig
	Auth    config.AuthConfig
	Session config.SessionConfig
}

// Client wraps paho.mqtt.golang as a notification source for the capture
// dispatcher.
//
// Incoming publications, session acknowledgements, and disconnects are
// bridged from the library's callbacks into a single buffered event channel
// drained by Next. A lost connection with reconnection disabled is terminal
// and is delivered as the error return of Next.
//
// Thread Safety:
//   - Subscribe and Close are safe for concurrent use.
//   - Next is intended for a single consumer (the dispatcher loop).
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     Config

	// events carries broker notifications in arrival order.
	events chan Event

	// fatal delivers the terminal transport error to Next. Buffered so the
	// connection-lost callback never blocks; only the first error matters.
	fatal chan error

	// done is closed on Close to release blocked callback senders.
	done     chan struct{}
	doneOnce sync.Once

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex
}

// Connect establishes a connection to the MQTT broker.
//
// It performs the following setup:
//  1. Builds connection options from config (broker URL, auth, TLS, session)
//  2. Installs callbacks that bridge library events into the event channel
//  3. Attempts the initial connection with timeout
//
// The initial connection is always fatal on failure, regardless of the
// reconnect setting; retry by restarting the process.
//
// Parameters:
//   - cfg: Broker, auth, and session configuration from config.yaml
//
// Returns:
//   - *Client: Connected notification source ready for use
//   - error: If the initial connection fails within timeout
func Connect(cfg Config) (*Client, error) {
	opts := buildClientOptions(cfg)

	c := &Client{
		cfg:     cfg,
		options: opts,
		events:  make(chan Event, cfg.Session.ChannelCapacity),
		fatal:   make(chan error, 1),
		done:    make(chan struct{}),
	}

	// All subscriptions are issued with a nil per-subscription handler, so
	// every message arrives here. OrderMatters keeps this synchronous with
	// the network loop, which preserves arrival order end to end.
	opts.SetDefaultPublishHandler(func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.emit(Event{
			Kind:    EventPublish,
			Topic:   msg.Topic(),
			Payload: msg.Payload(),
		})
	})

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.connMu.Lock()
		c.connected = true
		c.connMu.Unlock()

		c.emit(Event{Kind: EventConnAck})
	})

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.connMu.Lock()
		c.connected = false
		c.connMu.Unlock()

		if cfg.Session.Reconnect.Enabled {
			// The transport layer owns the retry; surface a status event.
			c.emit(Event{Kind: EventDisconnect, Reason: err})
			return
		}

		select {
		case c.fatal <- fmt.Errorf("%w: %w", ErrConnectionLost, err):
		default:
		}
	})

	// Create and connect
	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// Set connected state immediately after successful connection.
	// The OnConnectHandler callback runs asynchronously and may not have
	// executed yet, so we set it here to ensure IsConnected() returns true.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return c, nil
}

// emit delivers an event to the channel, blocking until the dispatcher has
// room. Blocking here is the backpressure mechanism: the network loop stalls
// rather than dropping notifications. Released by Close.
func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Next blocks until the next broker notification is available and returns it.
//
// The error return is terminal: a lost connection with reconnection
// disabled, a closed client, or context cancellation. The caller's loop
// must exit when Next returns an error.
//
// Parameters:
//   - ctx: Context aborting the wait (used for shutdown signals)
//
// Returns:
//   - Event: The next notification, in arrival order
//   - error: Terminal transport failure or cancellation
func (c *Client) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-c.events:
		return ev, nil
	case err := <-c.fatal:
		return Event{}, err
	case <-c.done:
		return Event{}, ErrClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Subscribe issues a QoS 2 subscribe command for the topic.
//
// The command submission is synchronous: an error return means the command
// never reached the broker (not connected, or the library rejected it).
// The broker's acknowledgement arrives later as an EventSubAck carrying the
// per-topic grant, including failures.
//
// Parameters:
//   - topic: The topic filter to subscribe to
//
// Returns:
//   - error: nil if the command was submitted, or wrapped submission error
func (c *Client) Subscribe(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, ErrNotConnected)
	}

	token := c.client.Subscribe(topic, subscribeQoS, nil)

	// Deliver the grant asynchronously so startup is not serialized on
	// broker round-trips. A timed-out SUBACK is reported as a failure
	// grant rather than silence.
	go func() {
		result := SubResult{Topic: topic, Code: SubAckFailure}

		if token.WaitTimeout(defaultSubscribeTimeout) && token.Error() == nil {
			if sub, ok := token.(*pahomqtt.SubscribeToken); ok {
				if code, found := sub.Result()[topic]; found {
					result.Code = code
				}
			}
		}

		c.emit(Event{Kind: EventSubAck, Results: []SubResult{result}})
	}()

	return nil
}

// Close disconnects from the broker and releases the event channel.
//
// Pending operations get a quiesce period to complete. After Close, Next
// returns ErrClosed.
//
// Returns:
//   - error: Always nil (disconnecting an already-closed client is not an error)
func (c *Client) Close() error {
	c.doneOnce.Do(func() {
		close(c.done)
	})

	if c.client == nil {
		return nil
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// HealthCheck verifies the MQTT connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}
