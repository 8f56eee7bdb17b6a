package snapshot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rwth-i11/spos/internal/spos"
)

type fakeSource struct {
	calls int32
}

func (f *fakeSource) GetProcessSlot(pid spos.ProcessID) *spos.Process {
	atomic.AddInt32(&f.calls, 1)
	return &spos.Process{State: spos.Ready, Priority: spos.Priority(pid)}
}

func TestGetPopulatesAllSlots(t *testing.T) {
	src := &fakeSource{}
	c := New(zap.NewNop(), src, Options{TTL: time.Minute})

	res, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(res.Slots) != spos.NMax {
		t.Fatalf("got %d slots, want %d", len(res.Slots), spos.NMax)
	}
	if res.CacheHit {
		t.Error("first Get should be a miss")
	}
}

func TestGetServesFromCacheWithinTTL(t *testing.T) {
	src := &fakeSource{}
	c := New(zap.NewNop(), src, Options{TTL: time.Minute})

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("first Get error: %v", err)
	}
	callsAfterFirst := atomic.LoadInt32(&src.calls)

	res, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("second Get error: %v", err)
	}
	if !res.CacheHit {
		t.Error("second Get within TTL should be a cache hit")
	}
	if atomic.LoadInt32(&src.calls) != callsAfterFirst {
		t.Error("source should not be re-read on a cache hit")
	}
}

func TestInvalidateForcesRefresh(t *testing.T) {
	src := &fakeSource{}
	c := New(zap.NewNop(), src, Options{TTL: time.Minute})

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("first Get error: %v", err)
	}
	c.Invalidate()

	res, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after invalidate error: %v", err)
	}
	if res.CacheHit {
		t.Error("Get after Invalidate should be a miss")
	}
}

func TestGetExpiresAfterTTL(t *testing.T) {
	src := &fakeSource{}
	c := New(zap.NewNop(), src, Options{TTL: 10 * time.Millisecond})

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("first Get error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	res, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after expiry error: %v", err)
	}
	if res.CacheHit {
		t.Error("Get after TTL expiry should be a miss")
	}
}
