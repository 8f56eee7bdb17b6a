package strategy

import (
	"math/rand"

	"github.com/rwth-i11/spos/internal/spos/proc"
)

// random picks uniformly among the Ready non-idle slots. spec.md §4.5/§9
// documents an off-by-one in the original source
// (list[(rand()%(n-1))+1]) that skews the distribution; this is the
// canonical fix: list the ready non-idle ids and draw uniformly among
// them.
func random(snap Snapshot, _ proc.ProcessID, info *Info) proc.ProcessID {
	if countReady(snap) <= 1 {
		return 0
	}
	ids := readyNonIdle(snap)
	draw := info.Rand
	if draw == nil {
		draw = rand.Intn
	}
	return ids[draw(len(ids))]
}
