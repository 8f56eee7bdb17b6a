package iosim

import (
	"testing"

	"github.com/rwth-i11/spos/internal/spos"
)

func TestInputStartsWithNoPendingCode(t *testing.T) {
	in := NewInput()
	if got := in.ReadInput(); got != 0 {
		t.Errorf("ReadInput() = %d, want 0", got)
	}
}

func TestTriggerTaskManagerSetsReservedCode(t *testing.T) {
	in := NewInput()
	in.TriggerTaskManager()

	if got := in.ReadInput(); got != spos.TaskManagerInputCode {
		t.Errorf("ReadInput() = %d, want %d", got, spos.TaskManagerInputCode)
	}
}

func TestWaitForNoInputClearsPendingCode(t *testing.T) {
	in := NewInput()
	in.TriggerTaskManager()
	in.WaitForNoInput()

	if got := in.ReadInput(); got != 0 {
		t.Errorf("ReadInput() after WaitForNoInput = %d, want 0", got)
	}
}

func TestOutputCountsEmittedBytes(t *testing.T) {
	out := NewOutput()
	out.OutputChar('.')
	out.OutputChar('.')

	if got := out.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}
