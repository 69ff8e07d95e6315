package topology

import (
	"maps"
	"slices"

	"github.com/matzehuels/visunn/pkg/errors"
)

// Validate checks the snapshot invariants and returns a MALFORMED_SNAPSHOT
// error describing the first violation found. Names are checked in sorted
// order so the reported violation is deterministic.
//
// On success Validate also builds the input/output set index used by
// [Snapshot.IsInput] and [Snapshot.IsOutput], and replaces missing shape
// lists with empty ones so they encode as [].
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.New(errors.ErrCodeMalformedSnapshot, "nil snapshot")
	}
	if s.Coords == nil {
		return errors.New(errors.ErrCodeMalformedSnapshot, "missing coords")
	}

	for _, to := range slices.Sorted(maps.Keys(s.Edges)) {
		if !s.Has(to) {
			return errors.New(errors.ErrCodeMalformedSnapshot, "edge target %q has no coordinates", to)
		}
		for _, from := range s.Edges[to] {
			if !s.Has(from) {
				return errors.New(errors.ErrCodeMalformedSnapshot, "edge %q -> %q references unknown node %q", from, to, from)
			}
		}
	}
	for _, name := range s.Inputs {
		if !s.Has(name) {
			return errors.New(errors.ErrCodeMalformedSnapshot, "input %q has no coordinates", name)
		}
	}
	for _, name := range s.Outputs {
		if !s.Has(name) {
			return errors.New(errors.ErrCodeMalformedSnapshot, "output %q has no coordinates", name)
		}
	}

	for name, meta := range s.Meta {
		if meta.InputShapes == nil || meta.OutputShapes == nil {
			if meta.InputShapes == nil {
				meta.InputShapes = []Shape{}
			}
			if meta.OutputShapes == nil {
				meta.OutputShapes = []Shape{}
			}
			s.Meta[name] = meta
		}
	}

	s.idx = newIndex(s)
	return nil
}
