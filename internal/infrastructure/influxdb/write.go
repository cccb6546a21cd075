package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteMessagePoint records one received publication for throughput
// monitoring.
//
// The write is non-blocking; points are batched and sent asynchronously,
// so this is safe to call from the dispatch loop for every message.
//
// Parameters:
//   - topic: The topic the message was received on
//   - payloadBytes: Size of the raw payload in bytes
func (c *Client) WriteMessagePoint(topic string, payloadBytes int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"mqtt_messages",
		map[string]string{
			"topic": topic,
		},
		map[string]interface{}{
			"count":         1,
			"payload_bytes": payloadBytes,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
