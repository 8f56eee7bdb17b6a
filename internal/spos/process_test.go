package spos

import "testing"

func TestProcessStackBottomPartitionsMemory(t *testing.T) {
	seen := map[uint16]ProcessID{}
	for i := 0; i < NMax; i++ {
		pid := ProcessID(i)
		bottom := ProcessStackBottom(pid)
		top := bottom - StackSizeProc + 1
		for addr := top; ; addr++ {
			if owner, ok := seen[addr]; ok {
				t.Fatalf("addr %d owned by both slot %d and slot %d", addr, owner, pid)
			}
			seen[addr] = pid
			if addr == bottom {
				break
			}
		}
	}
}

func TestWithinStackRegion(t *testing.T) {
	pid := ProcessID(2)
	bottom := ProcessStackBottom(pid)
	top := bottom - StackSizeProc + 1

	if !withinStackRegion(pid, bottom) {
		t.Error("bottom byte should be within region")
	}
	if !withinStackRegion(pid, top) {
		t.Error("top byte should be within region")
	}
	if withinStackRegion(pid, top-1) {
		t.Error("byte below region should not be within region")
	}
	if withinStackRegion(pid, bottom+1) {
		t.Error("byte above region should not be within region")
	}
}
