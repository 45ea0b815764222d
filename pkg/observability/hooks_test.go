package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolverHooks{}
	r.OnResolve(ctx, "registry", OutcomeHit, time.Millisecond)
	r.OnStore(ctx, "registry", 128, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "node")
	c.OnCacheMiss(ctx, "node")
	c.OnCacheSet(ctx, "node", 1024)

	h := NoopHTTPHooks{}
	h.OnResponse(ctx, "GET", "/nodes/{id}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Error("Resolver() should return NoopResolverHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customResolver := &testResolverHooks{}
	SetResolverHooks(customResolver)
	if Resolver() != customResolver {
		t.Error("SetResolverHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Error("Reset() should restore NoopResolverHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testResolverHooks{}
	SetResolverHooks(custom)
	SetResolverHooks(nil)
	if Resolver() != custom {
		t.Error("SetResolverHooks(nil) should be ignored")
	}
}

func TestPrometheus(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.OnResolve(ctx, "registry", OutcomeHit, time.Millisecond)
	p.OnResolve(ctx, "registry", OutcomeHit, time.Millisecond)
	p.OnResolve(ctx, "registry", OutcomeMiss, time.Millisecond)
	p.OnStore(ctx, "registry", 256, nil)
	p.OnStore(ctx, "registry", 0, errors.New("boom"))
	p.OnCacheHit(ctx, "node")
	p.OnCacheSet(ctx, "node", 256)
	p.OnResponse(ctx, "GET", "/nodes", 200, time.Millisecond)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"ResolveHits", p.resolves.WithLabelValues("registry", "hit"), 2},
		{"ResolveMisses", p.resolves.WithLabelValues("registry", "miss"), 1},
		{"StoreOK", p.stores.WithLabelValues("registry", "ok"), 1},
		{"StoreError", p.stores.WithLabelValues("registry", "error"), 1},
		{"CacheHit", p.cacheOps.WithLabelValues("node", "hit"), 1},
		{"CacheSet", p.cacheOps.WithLabelValues("node", "set"), 1},
		{"Requests", p.requests.WithLabelValues("GET", "/nodes", "200"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}

	if n, err := testutil.GatherAndCount(reg, "nodegraph_resolve_duration_seconds"); err != nil || n != 1 {
		t.Errorf("resolve histogram series = %d, %v; want 1", n, err)
	}
}

// Test implementations
type testResolverHooks struct{ NoopResolverHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
