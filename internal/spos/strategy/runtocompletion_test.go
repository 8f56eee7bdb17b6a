package strategy

import "testing"

func TestRunToCompletionKeepsCurrentWhileReady(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(3, 1)
	snap.setReady(4, 1)

	if got := runToCompletion(snap, 3, &Info{}); got != 3 {
		t.Errorf("runToCompletion kept current = %d, want 3", got)
	}
}

func TestRunToCompletionFallsBackToEvenWhenCurrentNotReady(t *testing.T) {
	snap := &fakeSnapshot{}
	snap.setReady(1, 1)
	snap.setReady(2, 1)

	// slot 3 just terminated (no longer Ready); scheduler must pick among
	// the remaining Ready slots via the even fallback.
	got := runToCompletion(snap, 3, &Info{})
	want := even(snap, 3, &Info{})
	if got != want {
		t.Errorf("fallback picked %d, want %d (even's choice)", got, want)
	}
}
