// Package spos implements the preemptive scheduler core of a small
// interrupt-driven operating system: the fixed-capacity process table, the
// critical-section discipline gating preemption, and the timer-driven
// scheduler ISR that dispatches to an interchangeable scheduling strategy.
package spos

import "github.com/rwth-i11/spos/internal/spos/proc"

// The process-table value types live in internal/spos/proc, a leaf package
// with no dependency on spos itself — internal/spos/strategy and
// internal/spos/autostart depend on proc directly rather than on spos, so
// the scheduler core can depend on them in turn without an import cycle.
// spos re-exports them under their historical names so callers outside the
// scheduler core (internal/httpapi, cmd/sposd) are unaffected.
type (
	ProcessID    = proc.ProcessID
	Priority     = proc.Priority
	ProcessState = proc.ProcessState
	Program      = proc.Program
)

const (
	InvalidProcess       = proc.InvalidProcess
	NMax                 = proc.NMax
	StackSizeProc        = proc.StackSizeProc
	DefaultPriority      = proc.DefaultPriority
	DefaultOutputDelay   = proc.DefaultOutputDelay
	TaskManagerInputCode = proc.TaskManagerInputCode

	Unused  = proc.Unused
	Ready   = proc.Ready
	Running = proc.Running
)
