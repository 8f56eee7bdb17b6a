package spos

import (
	"sync"

	"github.com/rwth-i11/spos/internal/spos/platform"
)

// criticalSection implements the nestable critical-section gate of
// spec.md §4.4: entering masks the scheduler's own timer-compare
// interrupt (not interrupts globally — peripheral ISRs keep running);
// only the outermost leave re-enables it. Overflow/underflow are fatal
// conditions reported through FatalSink rather than panics, so a target
// can choose to halt, reset, or (in tests) merely record the violation.
//
// Grounded on the ownership discipline in the teacher's slotPool
// (internal/infrastructure/processmgr/slot_pool.go), adapted from a
// panic-on-misuse semaphore to the spec's fatal-sink contract.
type criticalSection struct {
	mu       sync.Mutex // guards nest; stands in for the AVR's single-threaded ISR semantics under Go's real concurrency
	platform platform.Platform
	fatal    FatalSink

	nest uint8
}

func newCriticalSection(p platform.Platform, fatal FatalSink) *criticalSection {
	return &criticalSection{platform: p, fatal: fatal}
}

// enter snapshots and clears the global interrupt-enable bit so the
// nest-counter update and mask write are themselves atomic with respect to
// interrupts, increments the nest counter, masks the timer interrupt, and
// restores the global interrupt-enable bit.
func (c *criticalSection) enter() {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.platform.GlobalInterruptEnabled()
	c.platform.SetGlobalInterruptEnabled(false)

	if c.nest == 255 {
		c.fatal.Fatal(ErrCriticalSectionOverflow, InvalidProcess)
	} else {
		c.nest++
	}
	c.platform.MaskTimerInterrupt()

	c.platform.SetGlobalInterruptEnabled(g)
}

// leave is the mirror of enter: only the transition to nest == 0 unmasks
// the timer interrupt.
func (c *criticalSection) leave() {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.platform.GlobalInterruptEnabled()
	c.platform.SetGlobalInterruptEnabled(false)

	if c.nest == 0 {
		c.fatal.Fatal(ErrCriticalSectionUnderflow, InvalidProcess)
	} else {
		c.nest--
		if c.nest == 0 {
			c.platform.UnmaskTimerInterrupt()
		}
	}

	c.platform.SetGlobalInterruptEnabled(g)
}

// nesting reports the current nesting depth; exported for tests asserting
// the "nest == 0 outside any critical section" invariant.
func (c *criticalSection) nesting() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nest
}
