package strategy

import "github.com/rwth-i11/spos/internal/spos/proc"

// roundRobin keeps current running while its quantum lasts; once it
// expires (or current is no longer Ready), the Ready slot with the
// highest priority is chosen, ties broken by lowest slot id (scanning
// with a strict '>' comparison, matching the original source's tie-break
// exactly — spec.md §4.5). The winner's quantum is reseeded from its own
// priority.
//
// The scan seeds winner from the first Ready non-idle slot rather than
// from slot 0 itself: idle runs at DefaultPriority (kernel.go's
// InitScheduler), as does any process exec'd at that priority, so seeding
// from 0 and
// requiring a strict '>' to overtake it would leave idle as winner on a
// priority tie even though another slot is genuinely Ready, violating
// spec.md §4.5's invariant that slot 0 is never chosen while another
// slot is Ready.
func roundRobin(snap Snapshot, current proc.ProcessID, info *Info) proc.ProcessID {
	if snap.State(current) == proc.Ready && info.TimeSlice > 0 {
		info.TimeSlice--
		return current
	}

	if countReady(snap) <= 1 {
		return 0
	}

	ids := readyNonIdle(snap)
	winner := ids[0]
	for _, pid := range ids[1:] {
		if snap.Priority(pid) > snap.Priority(winner) {
			winner = pid
		}
	}

	info.TimeSlice = uint8(snap.Priority(winner))
	return winner
}
