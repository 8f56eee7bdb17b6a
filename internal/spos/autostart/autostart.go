// Package autostart provides the externally-initialised singly linked list
// of programs exec'd at boot (spec.md §6's autostart_head). The kernel
// never constructs this list itself — a board-support package builds one
// Node per program and hands the head to Kernel.InitScheduler.
package autostart

import "github.com/rwth-i11/spos/internal/spos/proc"

// Node is one autostart list entry.
type Node struct {
	Program  proc.Program
	Priority proc.Priority
	Next     *Node
}

// List walks the nodes from head in order, collecting them into a slice.
// A nil head yields an empty, non-nil slice.
func List(head *Node) []*Node {
	out := []*Node{}
	for n := head; n != nil; n = n.Next {
		out = append(out, n)
	}
	return out
}

// Push prepends a new node to head and returns the new head, letting
// callers build a list with repeated calls: head = autostart.Push(head, p, prio).
func Push(head *Node, program proc.Program, priority proc.Priority) *Node {
	return &Node{Program: program, Priority: priority, Next: head}
}
