package strategy

import "github.com/rwth-i11/spos/internal/spos/proc"

// inactiveAging ages every Ready slot by its own priority each tick, then
// picks the winner by the lexicographic key (age desc, priority desc,
// slot id asc) among Ready slots, resetting the winner's age to 0 before
// returning. spec.md §9 resolves the docstring/code discrepancy in favor
// of the code: the winner's age resets to 0, not to its priority. The
// winner scan seeds from the first Ready non-idle slot, the same fix
// applied to RoundRobin: idle sits in the table at DefaultPriority, which
// a process exec'd at that priority shares, so seeding from slot 0 and
// requiring a strict '>' to overtake it would let an age/priority tie
// spuriously keep idle as winner while another slot is Ready.
func inactiveAging(snap Snapshot, _ proc.ProcessID, info *Info) proc.ProcessID {
	for i := 0; i < snap.NMax(); i++ {
		pid := proc.ProcessID(i)
		if snap.State(pid) == proc.Ready {
			info.Age[pid] += uint32(snap.Priority(pid))
		}
	}

	winner := proc.ProcessID(0)
	if ids := readyNonIdle(snap); len(ids) > 0 {
		winner = ids[0]
	}
	for i := 0; i < snap.NMax(); i++ {
		pid := proc.ProcessID(i)
		if pid == winner || snap.State(pid) != proc.Ready {
			continue
		}
		switch {
		case info.Age[pid] > info.Age[winner]:
			winner = pid
		case info.Age[pid] == info.Age[winner] && snap.Priority(pid) > snap.Priority(winner):
			winner = pid
		}
	}

	info.Age[winner] = 0
	return winner
}
