// Package strategy implements the five interchangeable scheduling
// strategies of spec.md §4.5: Even, Random, RoundRobin, InactiveAging and
// RunToCompletion. Each is a pure function over a read-only Snapshot of the
// process table plus a mutable SchedulingInfo record — the shared-mutable
// frontier the design notes in spec.md §9 call out explicitly.
package strategy

import "github.com/rwth-i11/spos/internal/spos/proc"

// Strategy names the five interchangeable scheduling policies.
type Strategy uint8

const (
	Even Strategy = iota
	Random
	RoundRobin
	InactiveAging
	RunToCompletion
)

func (s Strategy) String() string {
	switch s {
	case Even:
		return "even"
	case Random:
		return "random"
	case RoundRobin:
		return "round-robin"
	case InactiveAging:
		return "inactive-aging"
	case RunToCompletion:
		return "run-to-completion"
	default:
		return "unknown"
	}
}

// Snapshot is the read-only view of the process table a strategy consumes.
// Strategies never mutate table state themselves — the scheduler ISR
// applies their decision (spec.md §4.3 step 7).
type Snapshot interface {
	// NMax is the table capacity (slot indices [0, NMax)).
	NMax() int
	// State returns the lifecycle state of the given slot.
	State(pid proc.ProcessID) proc.ProcessState
	// Priority returns the scheduling weight of the given slot.
	Priority(pid proc.ProcessID) proc.Priority
}

// Info is the auxiliary SchedulingInfo record living beside the
// strategies: remaining round-robin quantum and per-slot inactive-aging
// accumulators. Both are reset on strategy change per ResetStrategy.
type Info struct {
	TimeSlice uint8
	Age       [proc.NMax]uint32

	// Rand, when non-nil, supplies the random strategy's draw: Rand(n)
	// must return a value in [0, n). Tests inject a deterministic source;
	// production callers leave it nil to use math/rand.
	Rand func(n int) int
}

// Func is the common shape of all five strategies: given a table snapshot
// and the currently-running slot, pick the next slot to run. Implementations
// only ever return a Ready slot, or 0 if only idle is Ready — RunToCompletion
// is the single exception, returning current even if it is idle.
type Func func(snap Snapshot, current proc.ProcessID, info *Info) proc.ProcessID

// Dispatch returns the Func implementing s. Strategy dispatch happens once
// per tick inside the scheduler ISR, so implementations are plain function
// values rather than an interface — no allocation, no dynamic dispatch
// beyond this one switch (spec.md §9's "avoid dynamic-dispatch cost on
// every tick" note).
func Dispatch(s Strategy) Func {
	switch s {
	case Even:
		return even
	case Random:
		return random
	case RoundRobin:
		return roundRobin
	case InactiveAging:
		return inactiveAging
	case RunToCompletion:
		return runToCompletion
	default:
		return even
	}
}

// ResetStrategy reseeds Info for the strategy about to become active, per
// spec.md §4.5 "Strategy reset": RoundRobin reseeds TimeSlice from the
// priority of the currently running process (read through the table
// lookup, not some stale cached Process pointer — §9's resolved open
// question); InactiveAging fully clears Age; the others are no-ops.
func ResetStrategy(s Strategy, snap Snapshot, current proc.ProcessID, info *Info) {
	switch s {
	case RoundRobin:
		info.TimeSlice = uint8(snap.Priority(current))
	case InactiveAging:
		for i := range info.Age {
			info.Age[i] = 0
		}
	}
}

// ResetProcess clears the per-slot scheduling information for pid. Called
// from Exec when a slot is (re)allocated, so a process inheriting a slot
// never sees a predecessor's leftover age.
func ResetProcess(pid proc.ProcessID, info *Info) {
	info.Age[pid] = 0
}

// countReady returns the number of Ready slots in [0, snap.NMax()).
func countReady(snap Snapshot) int {
	n := 0
	for i := 0; i < snap.NMax(); i++ {
		if snap.State(proc.ProcessID(i)) == proc.Ready {
			n++
		}
	}
	return n
}

// readyNonIdle returns the ids of all Ready slots excluding slot 0, in
// ascending order.
func readyNonIdle(snap Snapshot) []proc.ProcessID {
	out := make([]proc.ProcessID, 0, snap.NMax()-1)
	for i := 1; i < snap.NMax(); i++ {
		pid := proc.ProcessID(i)
		if snap.State(pid) == proc.Ready {
			out = append(out, pid)
		}
	}
	return out
}

// cycleNext advances from current in the cyclic order 1 -> 2 -> ... ->
// (NMax-1) -> 1 (slot 0 excluded) until a Ready slot is found.
func cycleNext(snap Snapshot, current proc.ProcessID) proc.ProcessID {
	n := proc.ProcessID(snap.NMax())
	pid := current
	for {
		if pid == n-1 {
			pid = 1
		} else {
			pid++
		}
		if snap.State(pid) == proc.Ready {
			return pid
		}
	}
}
