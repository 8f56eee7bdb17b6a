package spos

import "github.com/rwth-i11/spos/internal/spos/platform"

// computeChecksum is the XOR fold of the StackSizeProc+1 bytes from
// ProcessStackBottom(pid) through ProcessStackBottom(pid)+StackSizeProc
// inclusive (spec.md §4.3). Note this walks upward from the slot's own
// bottom byte into the next slot's region (or, for the last slot, into the
// ISR stack headroom) rather than back down through the bytes Exec primed
// — that is the literal, faithfully-preserved formula from the original
// source, not a typo here.
func computeChecksum(p platform.Platform, pid ProcessID) byte {
	bottom := ProcessStackBottom(pid)
	top := bottom + StackSizeProc

	var sum byte
	for addr := bottom; ; addr++ {
		sum ^= p.StackByte(addr)
		if addr == top {
			break
		}
	}
	return sum
}
