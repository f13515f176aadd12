package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLookup(ctx, "neighbors", time.Millisecond, nil)
	l.OnLayoutComplete(ctx, "primary", 7, 0, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "neighbors")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "ladder", 512)

	i := NoopIndexHooks{}
	i.OnGeometry(ctx, "boundary", time.Millisecond, errors.New("down"))
	i.OnRetry(ctx, "boundary", 1)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/health", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Index().(NoopIndexHooks); !ok {
		t.Error("Index() should return NoopIndexHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	rec := &recorder{}
	SetLayoutHooks(rec)
	SetCacheHooks(rec)
	SetIndexHooks(rec)
	SetServerHooks(rec)
	if Layout() != LayoutHooks(rec) || Cache() != CacheHooks(rec) || Index() != IndexHooks(rec) || Server() != ServerHooks(rec) {
		t.Error("Set*Hooks should register custom hooks")
	}

	SetLayoutHooks(nil)
	if Layout() != LayoutHooks(rec) {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Layout().OnLookup(context.Background(), "ladder", 0, nil)
	if rec.lookups != 1 {
		t.Errorf("lookups = %d, want 1", rec.lookups)
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

type recorder struct {
	NoopLayoutHooks
	NoopCacheHooks
	NoopIndexHooks
	NoopServerHooks
	lookups int
}

func (r *recorder) OnLookup(context.Context, string, time.Duration, error) { r.lookups++ }
