// Package mqtt provides the broker connection for mqtt-scribe.
//
// This package manages:
//   - Connection to the MQTT broker (TLS, credentials, keep-alive, session)
//   - QoS 2 topic subscriptions
//   - Bridging library callbacks into an ordered notification stream
//
// # Architecture
//
// The capture dispatcher treats this package as an opaque notification
// source plus a subscribe command sink:
//
//	Broker → paho callbacks → event channel → Client.Next → dispatcher
//
// Publications, connection acknowledgements, subscription grants, and
// disconnect notices all arrive as typed Events from Next. A terminal
// transport failure - a lost connection when reconnection is disabled -
// is Next's error return, which ends the dispatcher loop.
//
// # Ordering
//
// Subscriptions use a nil per-subscription handler so every message funnels
// through the default publish handler, and OrderMatters keeps that handler
// synchronous with the network loop. Events are therefore delivered to the
// dispatcher in broker arrival order.
//
// # Usage
//
//	client, err := mqtt.Connect(mqtt.Config{Broker: cfg.Broker, Auth: cfg.Auth, Session: cfg.Session})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.Subscribe("sensors/temp"); err != nil {
//	    log.Warn("subscribe submission failed", "topic", "sensors/temp")
//	}
//
//	for {
//	    ev, err := client.Next(ctx)
//	    if err != nil {
//	        return err // terminal
//	    }
//	    handle(ev)
//	}
package mqtt
