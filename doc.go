// Package loosemac implements a serial, discrete-time simulator for
// LooseMAC, a distributed time-slot allocation protocol for multi-hop
// wireless networks. A Simulation owns a fixed node table and a
// one-tick mailbox, and advances in lock-step through four phases per
// tick — send, deliver, ready-check, termination — until every node
// reaches READY or a caller-supplied tick cap is exceeded.
//
// The package has no network transport and no concurrency: a tick is
// one pass over the node table, driven entirely by direct calls. That
// mirrors the protocol's own model (every node observes the same
// discrete time base) rather than any asynchronous runtime.
package loosemac
