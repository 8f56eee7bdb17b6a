// Package snapshot caches a read-only view of the process table for the
// diagnostics API, coalescing concurrent readers with singleflight and
// serving a short-TTL copy instead of hitting the kernel's mutex on every
// request. Grounded on the teacher's SummaryService
// (internal/service/channel_summary.go).
package snapshot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rwth-i11/spos/internal/spos"
)

// Slot is the diagnostics-facing view of one process-table entry.
type Slot struct {
	PID      int    `json:"pid"`
	State    string `json:"state"`
	Priority uint8  `json:"priority"`
	SP       uint16 `json:"sp"`
	Checksum byte   `json:"checksum"`
}

// Result bundles the cached slots with cache telemetry for response headers.
type Result struct {
	Slots       []Slot
	CacheHit    bool
	GeneratedAt time.Time
}

// Options configures the cache policy.
type Options struct {
	TTL time.Duration
}

func (o *Options) setDefaults() {
	if o.TTL <= 0 {
		o.TTL = 250 * time.Millisecond
	}
}

// Source is the narrow kernel surface the cache reads from.
type Source interface {
	GetProcessSlot(pid spos.ProcessID) *spos.Process
}

// Cache serves process-table snapshots with TTL caching and singleflight
// coalescing, so a burst of concurrent diagnostics requests triggers at
// most one table walk.
type Cache struct {
	log    *zap.Logger
	source Source
	opts   Options

	mu      sync.RWMutex
	cache   []Slot
	expires time.Time
	genAt   time.Time

	now func() time.Time
	sg  singleflight.Group
}

// New wires a Cache over source.
func New(log *zap.Logger, source Source, opts Options) *Cache {
	log = log.Named("snapshot_cache")
	opts.setDefaults()
	return &Cache{log: log, source: source, opts: opts, now: time.Now}
}

// Get returns the cached snapshot or refreshes it when expired.
func (c *Cache) Get(ctx context.Context) (Result, error) {
	c.mu.RLock()
	if c.cache != nil && c.now().Before(c.expires) {
		out := cloneSlots(c.cache)
		genAt := c.genAt
		c.mu.RUnlock()
		return Result{Slots: out, CacheHit: true, GeneratedAt: genAt}, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.sg.Do("snapshot-refresh", func() (any, error) {
		c.mu.RLock()
		if c.cache != nil && c.now().Before(c.expires) {
			out := cloneSlots(c.cache)
			genAt := c.genAt
			c.mu.RUnlock()
			return Result{Slots: out, CacheHit: true, GeneratedAt: genAt}, nil
		}
		c.mu.RUnlock()

		start := c.now()
		data := c.refresh()

		c.mu.Lock()
		c.cache = data
		c.expires = c.now().Add(c.opts.TTL)
		c.genAt = start
		c.mu.Unlock()

		return Result{Slots: cloneSlots(data), CacheHit: false, GeneratedAt: start}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Invalidate forces the next Get to refresh, used after a strategy change.
// The task-manager trigger handler does not call it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cache = nil
	c.expires = time.Time{}
	c.mu.Unlock()
}

func (c *Cache) refresh() []Slot {
	out := make([]Slot, 0, spos.NMax)
	for i := 0; i < spos.NMax; i++ {
		pid := spos.ProcessID(i)
		p := c.source.GetProcessSlot(pid)
		out = append(out, Slot{
			PID:      i,
			State:    p.State.String(),
			Priority: uint8(p.Priority),
			SP:       p.SP,
			Checksum: p.Checksum,
		})
	}
	return out
}

func cloneSlots(in []Slot) []Slot {
	if len(in) == 0 {
		return nil
	}
	out := make([]Slot, len(in))
	copy(out, in)
	return out
}
