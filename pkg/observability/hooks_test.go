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

	n := NoopNavigationHooks{}
	n.OnRequest(ctx, "root", 1)
	n.OnCommit(ctx, "root", 1, 12, time.Second)
	n.OnDiscard(ctx, "root", 1)
	n.OnError(ctx, "root", 1, "FETCH_FAILED", nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "snapshot")
	c.OnCacheMiss(ctx, "snapshot")
	c.OnCacheSet(ctx, "snapshot", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "localhost:5000", "/api/root")
	h.OnResponse(ctx, "GET", "localhost:5000", "/api/root", 200, time.Second)
	h.OnError(ctx, "GET", "localhost:5000", "/api/root", nil)

	s := NoopServerHooks{}
	s.OnServe(ctx, "api", 200, time.Millisecond)
	s.OnReload(ctx, 3, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Navigation().(NoopNavigationHooks); !ok {
		t.Error("Navigation() should return NoopNavigationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	custom := &testNavigationHooks{}
	SetNavigationHooks(custom)
	if Navigation() != custom {
		t.Error("SetNavigationHooks should set custom hooks")
	}

	Reset()
	if _, ok := Navigation().(NoopNavigationHooks); !ok {
		t.Error("Reset() should restore NoopNavigationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testNavigationHooks{}
	SetNavigationHooks(custom)
	SetNavigationHooks(nil)

	if Navigation() != custom {
		t.Error("SetNavigationHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.OnRequest(ctx, "root", 1)
	p.OnRequest(ctx, "root;encoder", 2)
	p.OnRequest(ctx, "root;decoder", 3)
	p.OnDiscard(ctx, "root;encoder", 2)
	p.OnCommit(ctx, "root;decoder", 3, 17, 20*time.Millisecond)
	p.OnError(ctx, "root;x", 4, "MALFORMED_SNAPSHOT", errors.New("bad"))
	p.OnError(ctx, "root;y", 5, "", errors.New("?"))

	if got := testutil.ToFloat64(p.NavigationRequests.WithLabelValues("nested")); got != 2 {
		t.Errorf("nested requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.NavigationDiscards); got != 1 {
		t.Errorf("discards = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.SnapshotNodes); got != 17 {
		t.Errorf("snapshot nodes = %v, want 17", got)
	}
	if got := testutil.ToFloat64(p.NavigationErrors.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown errors = %v, want 1", got)
	}

	p.OnCacheMiss(ctx, "snapshot")
	p.OnCacheSet(ctx, "snapshot", 512)
	p.OnCacheHit(ctx, "snapshot")
	if got := testutil.ToFloat64(p.CacheBytes.WithLabelValues("snapshot")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	h := p.HTTP()
	h.OnResponse(ctx, "GET", "localhost", "/api/root", 200, time.Millisecond)
	h.OnError(ctx, "GET", "localhost", "/api/root", errors.New("refused"))
	if got := testutil.ToFloat64(p.HTTPRequests.WithLabelValues("localhost", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	p.OnServe(ctx, "api", 404, time.Millisecond)
	p.OnReload(ctx, 4, nil)
	p.OnReload(ctx, 0, errors.New("boom"))
	if got := testutil.ToFloat64(p.FixturesLoaded); got != 4 {
		t.Errorf("fixtures = %v, want 4", got)
	}
	if got := testutil.ToFloat64(p.Reloads.WithLabelValues("error")); got != 1 {
		t.Errorf("reload errors = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	Reset()
	defer Reset()

	p := NewPrometheus(prometheus.NewRegistry())
	Install(p)
	if Navigation() != NavigationHooks(p) {
		t.Error("Install should register navigation hooks")
	}
	if Cache() != CacheHooks(p) {
		t.Error("Install should register cache hooks")
	}
	if _, ok := HTTP().(promHTTP); !ok {
		t.Error("Install should register HTTP hooks")
	}
}

type testNavigationHooks struct{ NoopNavigationHooks }
