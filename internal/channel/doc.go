// Package channel carries messages between the panels and the host.
//
// A Channel pairs an outbound Sender with an inbound fan-out. Transports feed
// raw inbound messages in with Deliver; each Subscription receives every
// message delivered while it is registered, in order, without drops. The host
// connection is assumed FIFO and reliable, so nothing here deduplicates,
// retries, or times out.
//
// Two Senders exist: Socket, a WebSocket connection to a real host, and
// Recorder, an in-process sink used for offline runs and tests.
package channel
