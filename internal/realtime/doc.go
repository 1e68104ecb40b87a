// package realtime maintains the push channel to the material tracking
// service. A [Channel] dials the service's websocket endpoint, decodes
// incoming frames into the closed [Event] union, and redials with a
// linear backoff when the connection drops.
//
// Frames are JSON envelopes carrying an event name and a payload:
//
//	{"event": "item_updated", "payload": {"filename": "parts.sti", ...}}
//
// Consumers range over [Channel.Events] and switch on the concrete
// event type. Connection lifecycle changes (connect, disconnect,
// reconnection given up) are delivered through the same stream so a
// single loop observes everything in arrival order.
package realtime
