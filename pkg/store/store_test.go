package store

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
)

type result struct {
	snap *topology.Snapshot
	err  error
}

// gatedFetcher blocks every fetch until a result is sent on the channel for
// its wire tag.
type gatedFetcher struct {
	started chan string
	gates   map[string]chan result
}

func newGatedFetcher(wires ...string) *gatedFetcher {
	g := &gatedFetcher{
		started: make(chan string, len(wires)),
		gates:   make(map[string]chan result, len(wires)),
	}
	for _, w := range wires {
		g.gates[w] = make(chan result, 1)
	}
	return g
}

func (g *gatedFetcher) Fetch(ctx context.Context, wire string) (*topology.Snapshot, error) {
	g.started <- wire
	r := <-g.gates[wire]
	return r.snap, r.err
}

func snapWith(names ...string) *topology.Snapshot {
	coords := make(map[string]topology.Point, len(names))
	for i, n := range names {
		coords[n] = topology.Point{float64(i), 0}
	}
	return &topology.Snapshot{Coords: coords}
}

func staticFetcher(snap *topology.Snapshot, err error) Fetcher {
	return FetcherFunc(func(context.Context, string) (*topology.Snapshot, error) {
		return snap, err
	})
}

func TestRequestCommits(t *testing.T) {
	s := New(staticFetcher(snapWith("a", "b"), nil))

	if tg, snap := s.Current(); tg != tag.Root || snap != nil {
		t.Fatalf("Current() before commit = %q, %v", tg, snap)
	}

	c, err := s.Request(context.Background(), tag.MustDecode("root;encoder"))
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	if c.Seq != 1 {
		t.Errorf("Commit.Seq = %d, want 1", c.Seq)
	}
	tg, snap := s.Current()
	if tg != "root/encoder/" {
		t.Errorf("Current() tag = %q, want %q", tg, "root/encoder/")
	}
	if snap.NodeCount() != 2 {
		t.Errorf("Current() nodes = %d, want 2", snap.NodeCount())
	}
	if s.Seq() != 1 || s.Pending() || s.Err() != nil {
		t.Errorf("Seq=%d Pending=%v Err=%v after commit", s.Seq(), s.Pending(), s.Err())
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newGatedFetcher("root;a", "root;b")
	s := New(f)

	errA := make(chan error, 1)
	go func() {
		_, err := s.Request(ctx, tag.MustDecode("root;a"))
		errA <- err
	}()
	<-f.started

	errB := make(chan error, 1)
	go func() {
		_, err := s.Request(ctx, tag.MustDecode("root;b"))
		errB <- err
	}()
	<-f.started

	f.gates["root;b"] <- result{snap: snapWith("b")}
	if err := <-errB; err != nil {
		t.Fatalf("request B error: %v", err)
	}

	f.gates["root;a"] <- result{snap: snapWith("a")}
	if err := <-errA; !errors.IsSuperseded(err) {
		t.Fatalf("request A error = %v, want SUPERSEDED", err)
	}

	tg, snap := s.Current()
	if tg != "root/b/" || !snap.Has("b") {
		t.Errorf("Current() = %q %v, want B's snapshot", tg, snap.Names())
	}
	if s.Seq() != 2 {
		t.Errorf("Seq() = %d, want 2", s.Seq())
	}
}

func TestStaleResponseBeforeNewerResolves(t *testing.T) {
	ctx := context.Background()
	f := newGatedFetcher("root;a", "root;b")
	s := New(f)

	errA := make(chan error, 1)
	go func() {
		_, err := s.Request(ctx, tag.MustDecode("root;a"))
		errA <- err
	}()
	<-f.started

	errB := make(chan error, 1)
	go func() {
		_, err := s.Request(ctx, tag.MustDecode("root;b"))
		errB <- err
	}()
	<-f.started

	// A resolves first but B was already issued.
	f.gates["root;a"] <- result{snap: snapWith("a")}
	if err := <-errA; !errors.IsSuperseded(err) {
		t.Fatalf("request A error = %v, want SUPERSEDED", err)
	}
	if _, snap := s.Current(); snap != nil {
		t.Fatal("stale response must not be committed")
	}
	if !s.Pending() {
		t.Error("Pending() = false while B is in flight")
	}

	f.gates["root;b"] <- result{snap: snapWith("b")}
	if err := <-errB; err != nil {
		t.Fatalf("request B error: %v", err)
	}
	if tg, _ := s.Current(); tg != "root/b/" {
		t.Errorf("Current() tag = %q, want root/b/", tg)
	}
}

func TestStaleErrorDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newGatedFetcher("root;a", "root;b")
	s := New(f)

	errA := make(chan error, 1)
	go func() {
		_, err := s.Request(ctx, tag.MustDecode("root;a"))
		errA <- err
	}()
	<-f.started
	errB := make(chan error, 1)
	go func() {
		_, err := s.Request(ctx, tag.MustDecode("root;b"))
		errB <- err
	}()
	<-f.started

	f.gates["root;b"] <- result{snap: snapWith("b")}
	<-errB
	f.gates["root;a"] <- result{err: errors.New(errors.ErrCodeFetch, "connection refused")}

	if err := <-errA; !errors.IsSuperseded(err) {
		t.Fatalf("request A error = %v, want SUPERSEDED", err)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, stale failure must not be recorded", s.Err())
	}
}

func TestErrorsKeepPreviousSnapshot(t *testing.T) {
	tests := []struct {
		name string
		snap *topology.Snapshot
		err  error
		code errors.Code
	}{
		{"fetch error", nil, errors.New(errors.ErrCodeFetch, "timeout"), errors.ErrCodeFetch},
		{"plain error", nil, stderrors.New("boom"), errors.ErrCodeFetch},
		{"nil snapshot", nil, nil, errors.ErrCodeMalformedSnapshot},
		{
			"dangling edge",
			&topology.Snapshot{
				Coords: map[string]topology.Point{"a": {0, 0}},
				Edges:  map[string][]string{"a": {"ghost"}},
			},
			nil,
			errors.ErrCodeMalformedSnapshot,
		},
		{
			"unknown output",
			&topology.Snapshot{
				Coords:  map[string]topology.Point{"a": {0, 0}},
				Outputs: []string{"b"},
			},
			nil,
			errors.ErrCodeMalformedSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			var fail bool
			good := snapWith("x")
			s := New(FetcherFunc(func(context.Context, string) (*topology.Snapshot, error) {
				if fail {
					return tt.snap, tt.err
				}
				return good, nil
			}))
			if _, err := s.Request(ctx, tag.Root); err != nil {
				t.Fatalf("first Request() error: %v", err)
			}

			fail = true
			_, err := s.Request(ctx, tag.MustDecode("root;broken"))
			if errors.GetCode(err) != tt.code {
				t.Fatalf("Request() error = %v, want code %s", err, tt.code)
			}
			tg, snap := s.Current()
			if tg != tag.Root || snap != good {
				t.Errorf("Current() = %q, previous snapshot must be retained", tg)
			}
			if s.Err() == nil {
				t.Error("Err() = nil after failed request")
			}
			if s.Seq() != 1 {
				t.Errorf("Seq() = %d, want 1", s.Seq())
			}
		})
	}
}

func TestOnCommitRunsForCommitsOnly(t *testing.T) {
	ctx := context.Background()
	var fail bool
	s := New(FetcherFunc(func(context.Context, string) (*topology.Snapshot, error) {
		if fail {
			return nil, errors.New(errors.ErrCodeFetch, "down")
		}
		return snapWith("n"), nil
	}))

	var commits []Commit
	s.OnCommit(func(c Commit) {
		// Hooks run before Request returns and see the new commit.
		commits = append(commits, c)
	})

	s.Request(ctx, tag.Root)
	fail = true
	s.Request(ctx, tag.MustDecode("root;x"))

	if len(commits) != 1 {
		t.Fatalf("OnCommit calls = %d, want 1", len(commits))
	}
	if commits[0].Tag != tag.Root || commits[0].Seq != 1 {
		t.Errorf("commit = %+v", commits[0])
	}
}

func TestRequestWire(t *testing.T) {
	calls := 0
	s := New(FetcherFunc(func(_ context.Context, wire string) (*topology.Snapshot, error) {
		calls++
		if wire != "root;encoder;layer1" {
			t.Errorf("fetch wire = %q", wire)
		}
		return snapWith("n"), nil
	}))

	if _, err := s.RequestWire(context.Background(), ""); !errors.IsMalformedTag(err) {
		t.Fatalf("RequestWire(\"\") error = %v, want INVALID_TAG", err)
	}
	if s.Latest() != 0 || calls != 0 {
		t.Fatalf("malformed tag must not issue a request")
	}

	c, err := s.RequestWire(context.Background(), "root;encoder;layer1")
	if err != nil {
		t.Fatalf("RequestWire() error: %v", err)
	}
	if c.Tag != "root/encoder/layer1/" {
		t.Errorf("Commit.Tag = %q", c.Tag)
	}
}

func TestOnlyLatestOfManyCommits(t *testing.T) {
	ctx := context.Background()
	const n = 8
	wires := make([]string, n)
	for i := range wires {
		wires[i] = "root;m" + string(rune('a'+i))
	}
	f := newGatedFetcher(wires...)
	s := New(f)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, w := range wires {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.RequestWire(ctx, w)
		}()
		<-f.started
	}
	// Resolve in reverse issue order.
	for i := n - 1; i >= 0; i-- {
		f.gates[wires[i]] <- result{snap: snapWith(wires[i])}
	}
	wg.Wait()

	for i, err := range errs[:n-1] {
		if !errors.IsSuperseded(err) {
			t.Errorf("request %d error = %v, want SUPERSEDED", i, err)
		}
	}
	if errs[n-1] != nil {
		t.Errorf("latest request error: %v", errs[n-1])
	}
	if _, snap := s.Current(); !snap.Has(wires[n-1]) {
		t.Errorf("current snapshot is not the latest request's")
	}
}
