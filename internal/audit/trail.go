// Package audit persists kernel lifecycle events to a capped Redis stream
// for operator visibility (SPEC_FULL.md "MODULE: Audit Trail"). It is
// read-only history: the scheduler never consults it, and publishing
// always happens after Kernel.Tick or Kernel.Exec return, never from
// within them, preserving the "no blocking primitives inside the ISR"
// invariant of spec.md §5.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rwth-i11/spos/internal/rediscli"
)

// EventKind names the lifecycle transitions the trail records.
type EventKind string

const (
	Exec                     EventKind = "exec"
	Terminate                EventKind = "terminate"
	ChecksumMismatch         EventKind = "checksum_mismatch"
	CriticalSectionOverflow  EventKind = "critical_section_overflow"
	CriticalSectionUnderflow EventKind = "critical_section_underflow"
	StrategyChanged          EventKind = "strategy_changed"
)

// Event is one published audit record.
type Event struct {
	Kind   EventKind
	PID    int
	Detail string
	At     time.Time
}

const (
	streamKey = "spos:audit"
	streamCap = 10_000 // approximate MAXLEN, matching the teacher's ~-trimmed XADD convention
)

// Trail publishes and reads back kernel lifecycle events.
type Trail struct {
	client *rediscli.Client
	log    *zap.Logger
}

// NewTrail wraps an already-dialed Redis client.
func NewTrail(client *rediscli.Client, log *zap.Logger) *Trail {
	return &Trail{client: client, log: log.Named("audit")}
}

// Publish appends ev to the capped stream. Failures are logged and
// returned but never escalated to FatalSink — audit is best-effort
// operator tooling, not part of the scheduling contract.
func (t *Trail) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	args := &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: streamCap,
		Approx: true,
		Values: map[string]any{
			"kind":   string(ev.Kind),
			"pid":    ev.PID,
			"detail": ev.Detail,
			"at_ms":  ev.At.UnixMilli(),
		},
	}

	if err := t.client.XAdd(ctx, args).Err(); err != nil {
		t.log.Warn("publish failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

// Recent returns the last n entries of the stream, newest first.
func (t *Trail) Recent(ctx context.Context, n int64) ([]redis.XMessage, error) {
	msgs, err := t.client.XRevRangeN(ctx, streamKey, "+", "-", n).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange: %w", err)
	}
	return msgs, nil
}
