package strategy

import (
	"testing"

	"github.com/rwth-i11/spos/internal/spos/proc"
)

// fakeSnapshot is a directly constructible Snapshot for strategy tests.
type fakeSnapshot struct {
	states [proc.NMax]proc.ProcessState
	prios  [proc.NMax]proc.Priority
}

func (f *fakeSnapshot) NMax() int { return proc.NMax }
func (f *fakeSnapshot) State(pid proc.ProcessID) proc.ProcessState { return f.states[pid] }
func (f *fakeSnapshot) Priority(pid proc.ProcessID) proc.Priority  { return f.prios[pid] }

func (f *fakeSnapshot) setReady(pid proc.ProcessID, prio proc.Priority) {
	f.states[pid] = proc.Ready
	f.prios[pid] = prio
}

func TestStrategyString(t *testing.T) {
	cases := []struct {
		s    Strategy
		want string
	}{
		{Even, "even"},
		{Random, "random"},
		{RoundRobin, "round-robin"},
		{InactiveAging, "inactive-aging"},
		{RunToCompletion, "run-to-completion"},
		{Strategy(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.s.String(); got != tc.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", tc.s, got, tc.want)
		}
	}
}

func TestDispatchUnknownFallsBackToEven(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(0, 1)
	snap.setReady(2, 1)

	got := Dispatch(Strategy(99))(snap, 0, &Info{})
	want := even(snap, 0, &Info{})
	if got != want {
		t.Errorf("Dispatch(unknown) picked %d, want %d (even's choice)", got, want)
	}
}

func TestResetStrategyRoundRobinReseedsFromCurrentPriority(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(3, 7)

	info := &Info{}
	ResetStrategy(RoundRobin, snap, 3, info)

	if info.TimeSlice != 7 {
		t.Errorf("TimeSlice = %d, want 7", info.TimeSlice)
	}
}

func TestResetStrategyInactiveAgingClearsAge(t *testing.T) {
	info := &Info{}
	info.Age[2] = 40
	info.Age[5] = 12

	ResetStrategy(InactiveAging, &fakeSnapshot{}, 0, info)

	for i, age := range info.Age {
		if age != 0 {
			t.Errorf("Age[%d] = %d, want 0", i, age)
		}
	}
}

func TestResetProcessClearsOnlyThatSlot(t *testing.T) {
	info := &Info{}
	info.Age[1] = 10
	info.Age[2] = 20

	ResetProcess(1, info)

	if info.Age[1] != 0 {
		t.Errorf("Age[1] = %d, want 0", info.Age[1])
	}
	if info.Age[2] != 20 {
		t.Errorf("Age[2] = %d, want unchanged 20", info.Age[2])
	}
}

func TestCountReady(t *testing.T) {
	snap := &fakeSnapshot{}
	if countReady(snap) != 0 {
		t.Fatal("expected 0 ready slots initially")
	}
	snap.setReady(0, 1)
	snap.setReady(3, 1)
	if got := countReady(snap); got != 2 {
		t.Errorf("countReady = %d, want 2", got)
	}
}

func TestReadyNonIdleExcludesSlotZero(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(0, 1)
	snap.setReady(2, 1)
	snap.setReady(4, 1)

	got := readyNonIdle(snap)
	want := []proc.ProcessID{2, 4}
	if len(got) != len(want) {
		t.Fatalf("readyNonIdle = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("readyNonIdle[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCycleNextWrapsSkippingIdle(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(1, 1)
	snap.setReady(proc.NMax-1, 1)

	// starting at the last slot, the only other ready non-idle slot is 1,
	// so cycling must wrap around past slot 0 straight to 1.
	got := cycleNext(snap, proc.ProcessID(proc.NMax-1))
	if got != 1 {
		t.Errorf("cycleNext wrapped to %d, want 1", got)
	}
}
