// Package game implements the truco rules engine: card play, trick and
// hand resolution, the envido/flor/truco bid escalation state machine,
// and match scoring.
//
// A Match is a self-contained instance driven entirely by ApplyCommand
// calls; it performs no I/O and holds no process-wide state, so any
// number of matches can run side by side. Transitions are synchronous:
// pacing, timeouts and visibility filtering belong to the transport.
package game
