// Package iosim provides software stand-ins for the narrow hardware
// collaborators the scheduler ISR polls (spec.md §6): read_input /
// wait_for_no_input, and the output/delay pair idle drives. A real board
// wires these to a keypad and LCD instead.
package iosim

import (
	"sync"
	"time"

	"github.com/rwth-i11/spos/internal/spos"
)

// Input is a software InputSource whose "key" is set externally — by the
// diagnostics API's task-manager trigger endpoint, in this rendition,
// rather than a physical keypad poll.
type Input struct {
	mu      sync.Mutex
	pending uint8
}

// NewInput returns an Input reporting no key pressed.
func NewInput() *Input { return &Input{} }

// ReadInput implements spos.InputSource.
func (i *Input) ReadInput() uint8 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending
}

// WaitForNoInput implements spos.InputSource. The software model has no
// real debounce to wait out, so it just clears the pending code.
func (i *Input) WaitForNoInput() {
	i.mu.Lock()
	i.pending = 0
	i.mu.Unlock()
}

// TriggerTaskManager implements httpapi.TaskManagerTrigger: it sets the
// reserved task-manager code so the next Tick's step 5 picks it up.
func (i *Input) TriggerTaskManager() {
	i.mu.Lock()
	i.pending = spos.TaskManagerInputCode
	i.mu.Unlock()
}

// Output is a software OutputSink for the idle program (spec.md §1's
// "LCD/character output" collaborator), recording the last byte written
// instead of driving real hardware.
type Output struct {
	mu   sync.Mutex
	last byte
	n    uint64
}

// NewOutput returns an idle OutputSink.
func NewOutput() *Output { return &Output{} }

func (o *Output) OutputChar(c byte) {
	o.mu.Lock()
	o.last = c
	o.n++
	o.mu.Unlock()
}

func (o *Output) DelayMS(n int) { time.Sleep(time.Duration(n) * time.Millisecond) }

// Count reports how many bytes have been emitted, for tests/diagnostics.
func (o *Output) Count() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.n
}
