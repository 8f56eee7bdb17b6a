package spos

import "github.com/rwth-i11/spos/internal/spos/proc"

// Process is one process-table slot.
//
// Invariants (spec.md §3):
//   - state is Unused iff the slot is free for allocation.
//   - program is non-nil iff state != Unused.
//   - priority is set at Exec time and immutable thereafter.
//   - sp lies within the slot's stack region whenever state != Unused and the
//     process is not the one currently running.
//   - checksum equals computeChecksum(pid) on entry to the ISR's restore phase.
type Process = proc.Process

// ProcessStackBottom returns the address of the highest (bottom, since the
// stack grows downward) byte of pid's stack region. Memory is statically
// partitioned: slot p owns
// [ProcessStackBottom(p)-StackSizeProc+1, ProcessStackBottom(p)], and no two
// slots' regions alias.
func ProcessStackBottom(pid ProcessID) uint16 {
	return proc.ProcessStackBottom(pid)
}

// withinStackRegion reports whether sp lies inside pid's stack region.
func withinStackRegion(pid ProcessID, sp uint16) bool {
	return proc.WithinStackRegion(pid, sp)
}
