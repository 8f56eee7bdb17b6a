package strategy

import "github.com/rwth-i11/spos/internal/spos/proc"

// runToCompletion never preempts a Ready process, including idle: current
// keeps running as long as it is still Ready, even if current is slot 0.
// Only once current has left the Ready state does the scheduler fall back
// to the even cyclic search among the remaining Ready slots.
func runToCompletion(snap Snapshot, current proc.ProcessID, info *Info) proc.ProcessID {
	if snap.State(current) == proc.Ready {
		return current
	}
	return even(snap, current, info)
}
