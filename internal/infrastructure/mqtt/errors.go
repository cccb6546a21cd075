package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the initial connection attempt fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrConnectionLost is returned by Next when the connection drops and
	// reconnection is disabled. It is terminal for the event loop.
	ErrConnectionLost = errors.New("mqtt: connection lost")

	// ErrSubscribeFailed is returned when a subscribe command cannot be submitted.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrClosed is returned by Next after Close has been called.
	ErrClosed = errors.New("mqtt: client closed")
)
