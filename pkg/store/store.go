package store

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/observability"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
)

// Fetcher retrieves the snapshot for one wire tag. Implementations may
// block; they are called without any store lock held.
type Fetcher interface {
	Fetch(ctx context.Context, wire string) (*topology.Snapshot, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, wire string) (*topology.Snapshot, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, wire string) (*topology.Snapshot, error) {
	return f(ctx, wire)
}

// Commit describes a snapshot that became current.
type Commit struct {
	Tag      tag.Tag
	Seq      uint64
	Snapshot *topology.Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for commit durations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds the current snapshot and the sequence counter.
type Store struct {
	fetcher Fetcher
	logger  *log.Logger
	now     func() time.Time

	mu        sync.Mutex
	latest    uint64 // last issued request
	applied   uint64 // sequence of the current snapshot
	settled   uint64 // last request that resolved while still latest
	current   *topology.Snapshot
	tag       tag.Tag
	lastErr   error
	listeners []func(Commit)
}

// New creates an empty store. Until the first commit Current returns a nil
// snapshot and the root tag.
func New(f Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: f,
		logger:  log.New(io.Discard),
		now:     time.Now,
		tag:     tag.Root,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnCommit registers fn to run on every commit. fn runs with the store lock
// held and must not call back into the store.
func (s *Store) OnCommit(fn func(Commit)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Request fetches the snapshot for t and commits it if no newer request was
// issued in the meantime. It blocks until the fetch resolves.
//
// The previous snapshot stays current on every error path. A response that
// lost the race returns an error with code SUPERSEDED, whether the fetch
// itself succeeded or not.
func (s *Store) Request(ctx context.Context, t tag.Tag) (Commit, error) {
	wire := t.Wire()

	s.mu.Lock()
	s.latest++
	seq := s.latest
	s.mu.Unlock()

	hooks := observability.Navigation()
	hooks.OnRequest(ctx, wire, seq)
	s.logger.Debug("request snapshot", "tag", wire, "seq", seq)
	start := s.now()

	snap, err := s.fetcher.Fetch(ctx, wire)
	if err == nil {
		err = checkSnapshot(snap)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.latest {
		hooks.OnDiscard(ctx, wire, seq)
		s.logger.Debug("discard stale response", "tag", wire, "seq", seq, "latest", s.latest)
		return Commit{}, errors.New(errors.ErrCodeSuperseded, "request %d for %s superseded by %d", seq, wire, s.latest)
	}
	s.settled = seq

	if err != nil {
		s.lastErr = err
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeFetch
			err = errors.Wrap(errors.ErrCodeFetch, err, "fetch %s", wire)
		}
		hooks.OnError(ctx, wire, seq, string(code), err)
		if code == errors.ErrCodeMalformedSnapshot {
			s.logger.Error("malformed snapshot", "tag", wire, "err", err)
		} else {
			s.logger.Warn("fetch failed", "tag", wire, "err", err)
		}
		return Commit{}, err
	}

	c := Commit{Tag: t, Seq: seq, Snapshot: snap}
	s.current = snap
	s.tag = t
	s.applied = seq
	s.lastErr = nil
	for _, fn := range s.listeners {
		fn(c)
	}

	hooks.OnCommit(ctx, wire, seq, snap.NodeCount(), s.now().Sub(start))
	s.logger.Debug("commit snapshot", "tag", wire, "seq", seq, "nodes", snap.NodeCount())
	return c, nil
}

// RequestWire decodes wire and requests it. A malformed wire tag fails with
// INVALID_TAG before any request is issued.
func (s *Store) RequestWire(ctx context.Context, wire string) (Commit, error) {
	t, err := tag.Decode(wire)
	if err != nil {
		return Commit{}, err
	}
	return s.Request(ctx, t)
}

// Current returns the tag and snapshot of the last commit.
func (s *Store) Current() (tag.Tag, *topology.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag, s.current
}

// Seq returns the sequence number of the current snapshot, 0 before the
// first commit.
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// Latest returns the sequence number of the most recently issued request.
func (s *Store) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Pending reports whether the most recently issued request is still in
// flight.
func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled != s.latest
}

// Err returns the error of the latest resolved request, or nil if it
// committed.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func checkSnapshot(snap *topology.Snapshot) error {
	if snap == nil {
		return errors.New(errors.ErrCodeMalformedSnapshot, "empty response")
	}
	return snap.Validate()
}
