package strategy

import "github.com/rwth-i11/spos/internal/spos/proc"

// even is deterministic round-robin across non-idle slots: starting from
// current, advance 1 -> 2 -> ... -> (NMax-1) -> 1 until a Ready slot turns
// up. If only idle is Ready, slot 0 is returned without cycling.
func even(snap Snapshot, current proc.ProcessID, _ *Info) proc.ProcessID {
	if countReady(snap) <= 1 {
		return 0
	}
	return cycleNext(snap, current)
}
