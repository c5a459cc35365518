// Package pedometer turns raw motion signals into the trustworthy daily step
// count. It owns the peak detector for the accelerometer path, the counter
// reconciler for the hardware path, the persisted daily ledger with its
// day-rollover rule, and the listener hub. The Engine composes them behind
// the tracking interface the daemon and CLI consume.
//
// All ledger and detector state is serialized through the engine's mutex:
// hardware callbacks, accelerometer samples, the rollover tick, and API
// calls interleave from different goroutines but mutate state one at a time.
package pedometer
