package spos

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/rwth-i11/spos/internal/spos/autostart"
	"github.com/rwth-i11/spos/internal/spos/platform"
	"github.com/rwth-i11/spos/internal/spos/strategy"
	"github.com/rwth-i11/spos/internal/spos/trace"
)

// InputSource is the narrow collaborator the scheduler ISR polls once per
// tick for the reserved task-manager code (spec.md §4.3 step 5, §6).
type InputSource interface {
	ReadInput() uint8
	WaitForNoInput()
}

// TaskManager is the external interactive shell invoked on the reserved
// input code. Out of scope for this core (spec.md §1); the kernel only
// consumes it through this interface.
type TaskManager interface {
	Run()
}

// contextFrameBytes is the size of the "fake interrupt frame" primed onto
// a newly exec'd slot's stack: a 2-byte entry address plus 33 zero bytes
// standing in for the saved register file and flags word (spec.md §4.1,
// §6 "Persisted state layout").
const contextFrameBytes = 2 + 33

// Kernel bundles the process table, scheduling info, critical-section
// gate and collaborators into the single well-known object spec.md §9's
// design notes call for, so the ISR shim drives it through one pointer.
type Kernel struct {
	mu     sync.Mutex // guards table, info, strat, cur outside Tick
	tickMu sync.Mutex // held for the full body of Tick, matching §5's "ISR body executes atomically with respect to itself"

	table [NMax]Process
	info  strategy.Info
	strat strategy.Strategy
	cur   ProcessID

	cs       *criticalSection
	platform platform.Platform
	fatal    FatalSink

	input   InputSource
	taskMgr TaskManager

	log   *zap.Logger
	trace *trace.Log
}

// NewKernel constructs a Kernel over the given Platform and FatalSink. log
// may be nil, in which case a no-op logger is used. If input is nil, step 5
// of the ISR is skipped entirely; if only taskMgr is nil, the reserved code
// is still read and cleared via WaitForNoInput but no task manager runs.
func NewKernel(p platform.Platform, fatal FatalSink, input InputSource, taskMgr TaskManager, log *zap.Logger) *Kernel {
	if log == nil {
		log = zap.NewNop()
	}
	k := &Kernel{
		platform: p,
		fatal:    fatal,
		input:    input,
		taskMgr:  taskMgr,
		log:      log.Named("kernel"),
		trace:    trace.NewLog(),
	}
	k.cs = newCriticalSection(p, fatal)
	return k
}

// tableSnapshot adapts Kernel to strategy.Snapshot. Strategies only ever
// read through it; they never see the Kernel itself (spec.md §9's
// "shared-mutable frontier" note).
type tableSnapshot struct{ k *Kernel }

func (s tableSnapshot) NMax() int                       { return NMax }
func (s tableSnapshot) State(pid ProcessID) ProcessState { return s.k.table[pid].State }
func (s tableSnapshot) Priority(pid ProcessID) Priority  { return s.k.table[pid].Priority }

func (k *Kernel) snapshot() strategy.Snapshot { return tableSnapshot{k} }

// Exec registers program at priority into the first free slot, scanning
// ascending from 0 (spec.md §4.1). It enters a critical section for the
// whole body and leaves it on every exit path, including the
// null-program path (§9's resolved open question).
func (k *Kernel) Exec(program Program, priority Priority) ProcessID {
	k.cs.enter()
	defer k.cs.leave()

	if program == nil {
		return InvalidProcess
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	pid := InvalidProcess
	for i := 0; i < NMax; i++ {
		if k.table[i].State == Unused {
			pid = ProcessID(i)
			break
		}
	}
	if pid == InvalidProcess {
		return InvalidProcess
	}

	slot := &k.table[pid]
	slot.State = Ready
	slot.Priority = priority
	slot.Checksum = 0
	strategy.ResetProcess(pid, &k.info)

	slot.Program = k.terminationShim(pid, program)
	k.primeStack(pid)

	k.log.Debug("exec", zap.Int("pid", int(pid)), zap.Uint8("priority", uint8(priority)))
	k.trace.Append(int(pid), "exec: priority="+strconv.Itoa(int(priority)))
	return pid
}

// terminationShim wraps program so that, should a hosted environment ever
// actually invoke a process's Program value (the core itself never does —
// spec.md §9 notes the original installs the shim as the deepest return
// address on the primed stack; Go has no raw return-address to poke, so
// wrapping the call is the idiomatic equivalent), the slot is returned to
// Unused and an immediate reschedule is triggered, exactly mirroring the
// supplemented Running|Ready -> Unused transition of spec.md §3.
func (k *Kernel) terminationShim(pid ProcessID, program Program) Program {
	return func() {
		program()
		k.Terminate(pid)
	}
}

// primeStack writes the fake interrupt frame described in spec.md §6: the
// entry address (here a placeholder, since a Go func value has no portable
// two-byte encoding a Software model could later resume from) followed by
// 33 zero bytes, leaving sp one byte below the last byte written. The
// Software platform does not execute this frame; it exists so the
// stack-region and checksum invariants (§8) hold under test.
func (k *Kernel) primeStack(pid ProcessID) {
	addr := ProcessStackBottom(pid)
	for i := 0; i < contextFrameBytes; i++ {
		k.platform.PushByteOnProcessStack(addr, 0)
		addr--
	}
	k.table[pid].SP = addr
}

// InitScheduler marks every slot Unused, execs every program in the
// supplied autostart list in order, then execs idleProgram last into
// whichever slot remains free (spec.md §4.2). Per the original source
// (os_initScheduler), idle lands wherever the scan finds it free, not
// necessarily slot 0 — callers that want the canonical slot-0 idle must
// supply an empty or idle-free autostart list, which is why this API asks
// callers not to include the idle program in autostartHead at all rather
// than replicating the original's function-pointer identity check (Go
// func values are not comparable).
func (k *Kernel) InitScheduler(autostartHead *autostart.Node, idleProgram Program) {
	k.mu.Lock()
	for i := range k.table {
		k.table[i] = Process{}
	}
	k.cur = 0
	k.mu.Unlock()

	for _, n := range autostart.List(autostartHead) {
		k.Exec(n.Program, n.Priority)
	}
	k.Exec(idleProgram, DefaultPriority)
}

// StartScheduler selects the initially Running slot and loads its saved sp
// into the hardware stack pointer before restoring its context (spec.md
// §4.2). The caller is expected to have exec'd at least one process.
func (k *Kernel) StartScheduler() {
	k.mu.Lock()
	k.cur = 0
	k.table[0].State = Running
	sp := k.table[0].SP
	k.mu.Unlock()

	k.platform.SetStackPointer(sp)
	k.platform.RestoreContext()
}

// Tick runs the full scheduler ISR protocol (spec.md §4.3, steps 1-10).
// It is held under tickMu for its entire body, the host-process analogue
// of "the scheduler's own timer interrupt is masked while the ISR runs"
// (§5) — Tick never re-enters itself.
func (k *Kernel) Tick() {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()

	k.mu.Lock()
	defer k.mu.Unlock()

	k.platform.SaveContext() // step 1

	prev := k.cur
	k.table[prev].SP = k.platform.StackPointer() // step 2

	k.platform.SetStackPointer(k.platform.BottomOfISRStack()) // step 3

	k.table[prev].Checksum = computeChecksum(k.platform, prev) // step 4

	if k.input != nil { // step 5
		if code := k.input.ReadInput(); code == TaskManagerInputCode {
			k.input.WaitForNoInput()
			if k.taskMgr != nil {
				k.taskMgr.Run()
			}
		}
	}

	k.table[prev].State = Ready // step 6

	next := strategy.Dispatch(k.strat)(k.snapshot(), prev, &k.info) // step 7
	k.table[next].State = Running
	k.cur = next

	k.platform.SetStackPointer(k.table[next].SP) // step 8

	if computeChecksum(k.platform, next) != k.table[next].Checksum { // step 9
		k.log.Error("stack checksum mismatch", zap.Int("pid", int(next)))
		k.trace.Append(int(next), "fatal: checksum mismatch")
		k.fatal.Fatal(ErrChecksumMismatch, next)
		return
	}

	k.platform.RestoreContext() // step 10
}

// Terminate implements the supplemented Running|Ready -> Unused transition
// (spec.md §3, §9): it frees pid's slot and its scheduling info, then
// triggers an immediate reschedule by invoking Tick directly, exactly as
// §9 suggests for the termination shim's follow-up action.
func (k *Kernel) Terminate(pid ProcessID) {
	if !pid.Valid() {
		return
	}

	k.mu.Lock()
	slot := &k.table[pid]
	slot.State = Unused
	slot.Program = nil
	slot.Checksum = 0
	strategy.ResetProcess(pid, &k.info)
	k.log.Debug("terminate", zap.Int("pid", int(pid)))
	k.trace.Append(int(pid), "terminate")
	k.mu.Unlock()

	k.Tick()
}

// GetProcessSlot returns a pointer to pid's table entry (spec.md §6).
func (k *Kernel) GetProcessSlot(pid ProcessID) *Process {
	k.mu.Lock()
	defer k.mu.Unlock()
	return &k.table[pid]
}

// GetCurrentProc returns the currently running slot.
func (k *Kernel) GetCurrentProc() ProcessID {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cur
}

// SetSchedulingStrategy installs s and resets its SchedulingInfo (spec.md
// §4.5 "Strategy reset").
func (k *Kernel) SetSchedulingStrategy(s strategy.Strategy) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.strat = s
	strategy.ResetStrategy(s, k.snapshot(), k.cur, &k.info)
	k.log.Info("strategy changed", zap.String("strategy", s.String()))
}

// GetSchedulingStrategy returns the active strategy.
func (k *Kernel) GetSchedulingStrategy() strategy.Strategy {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.strat
}

// EnterCriticalSection and LeaveCriticalSection expose the gate of
// spec.md §4.4 to non-ISR callers.
func (k *Kernel) EnterCriticalSection() { k.cs.enter() }
func (k *Kernel) LeaveCriticalSection() { k.cs.leave() }

// GetTrace returns pid's recent lifecycle events (exec/terminate/fatal),
// newest first, for diagnostics consumption.
func (k *Kernel) GetTrace(pid ProcessID) []string {
	return k.trace.Recent(int(pid))
}

// GetStackChecksum recomputes and returns pid's stack checksum (spec.md
// §6); it does not consult the cached Process.Checksum field, mirroring
// compute_checksum being a pure function of memory contents.
func (k *Kernel) GetStackChecksum(pid ProcessID) byte {
	return computeChecksum(k.platform, pid)
}
