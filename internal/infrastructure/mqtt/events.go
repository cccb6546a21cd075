package mqtt

// EventKind identifies the type of a broker notification delivered to the
// dispatcher.
type EventKind int

const (
	// EventPublish is an incoming application message.
	EventPublish EventKind = iota

	// EventConnAck reports a successfully established broker session.
	EventConnAck

	// EventSubAck carries the broker's per-topic subscription grants.
	EventSubAck

	// EventDisconnect reports a lost connection that the transport layer
	// is handling itself (auto-reconnect enabled).
	EventDisconnect
)

// String returns the event kind name for diagnostics.
func (k EventKind) String() string {
	switch k {
	case EventPublish:
		return "publish"
	case EventConnAck:
		return "connack"
	case EventSubAck:
		return "suback"
	case EventDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// SubAckFailure is the SUBACK return code the broker uses to reject a
// subscription (MQTT 3.1.1 §3.9.3).
const SubAckFailure byte = 0x80

// SubResult is one per-topic subscription grant from a SUBACK.
type SubResult struct {
	// Topic is the subscribed topic filter. Unlike the raw packet, the
	// client library correlates grants back to filters, so topic identity
	// is available to the failure diagnostic.
	Topic string

	// Code is the granted QoS, or SubAckFailure.
	Code byte
}

// Failed reports whether the broker rejected this subscription.
func (r SubResult) Failed() bool {
	return r.Code == SubAckFailure
}

// Event is one typed notification from the broker connection.
//
// Only the fields relevant to the Kind are populated: Topic and Payload
// for EventPublish, Results for EventSubAck, Reason for EventDisconnect.
type Event struct {
	Kind    EventKind
	Topic   string
	Payload []byte
	Results []SubResult
	Reason  error
}
