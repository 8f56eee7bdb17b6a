package spos

import (
	"testing"

	"github.com/rwth-i11/spos/internal/spos/platform"
)

func TestComputeChecksumXORFold(t *testing.T) {
	p := platform.NewSoftware(platform.MemSize(NMax, StackSizeProc))
	pid := ProcessID(1)

	bottom := ProcessStackBottom(pid)
	top := bottom + StackSizeProc

	want := byte(0)
	for addr := bottom; ; addr++ {
		p.PushByteOnProcessStack(addr, byte(addr))
		want ^= byte(addr)
		if addr == top {
			break
		}
	}

	if got := computeChecksum(p, pid); got != want {
		t.Errorf("computeChecksum = %d, want %d", got, want)
	}
}

func TestComputeChecksumZeroMemory(t *testing.T) {
	p := platform.NewSoftware(platform.MemSize(NMax, StackSizeProc))
	if got := computeChecksum(p, ProcessID(0)); got != 0 {
		t.Errorf("computeChecksum over zeroed memory = %d, want 0", got)
	}
}
