package strategy

import "testing"

func TestRandomOnlyIdleReady(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(0, 1)

	if got := random(snap, 0, &Info{}); got != 0 {
		t.Errorf("random() with only idle ready = %d, want 0", got)
	}
}

func TestRandomDrawsFromReadyNonIdleOnly(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(0, 1)
	snap.setReady(2, 1)
	snap.setReady(5, 1)

	// deterministic draw selects index 0 of readyNonIdle == [2, 5]
	info := &Info{Rand: func(n int) int { return 0 }}
	if got := random(snap, 0, info); got != 2 {
		t.Errorf("random() with draw=0 = %d, want 2", got)
	}

	info = &Info{Rand: func(n int) int { return n - 1 }}
	if got := random(snap, 0, info); got != 5 {
		t.Errorf("random() with draw=last = %d, want 5", got)
	}
}

func TestRandomDrawNeverPicksIdle(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(0, 1)
	snap.setReady(3, 1)

	for draw := 0; draw < 1; draw++ {
		info := &Info{Rand: func(n int) int { return draw }}
		if got := random(snap, 0, info); got == 0 {
			t.Errorf("random() picked idle slot 0")
		}
	}
}
