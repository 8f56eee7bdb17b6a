// Package idle provides the mandatory idle process: an infinite loop that
// yields visible output at DEFAULT_OUTPUT_DELAY intervals and does nothing
// else (spec.md §4.2). It depends only on the narrow OutputSink collaborator
// interface (spec.md §1, §6) so it carries no LCD/timer specifics of its own.
package idle

import "github.com/rwth-i11/spos/internal/spos"

// OutputSink is the external collaborator idle drives; a real board wires
// this to its LCD/UART driver and millisecond delay primitive.
type OutputSink interface {
	OutputChar(c byte)
	DelayMS(n int)
}

// New returns the idle Program: it never returns, emitting a single marker
// byte and delaying delayMS between iterations. Like every spos.Program,
// the kernel never calls this directly — Exec stores it in a free slot
// (slot 0 when the autostart list is empty) and it only ever "runs"
// symbolically in the software platform model.
func New(sink OutputSink, delayMS int) spos.Program {
	return func() {
		for {
			sink.OutputChar('.')
			sink.DelayMS(delayMS)
		}
	}
}
