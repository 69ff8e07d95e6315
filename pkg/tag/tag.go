package tag

import (
	"strings"

	"github.com/matzehuels/visunn/pkg/errors"
)

const (
	// Sep separates segments in canonical form.
	Sep = "/"

	// WireSep separates segments in wire form.
	WireSep = ";"

	// RootWire is the wire form of the top-level graph.
	RootWire = "root"
)

// Root is the canonical tag of the top-level graph.
const Root Tag = RootWire + Sep

// Tag is the canonical address of a module scope. A valid Tag has one or
// more non-empty segments and a single trailing "/".
type Tag string

// String returns the canonical form.
func (t Tag) String() string { return string(t) }

// IsRoot reports whether t addresses the top-level graph.
func (t Tag) IsRoot() bool { return t == Root }

// Segments returns the path segments of t, without separators.
func (t Tag) Segments() []string {
	s := strings.TrimSuffix(string(t), Sep)
	if s == "" {
		return nil
	}
	return strings.Split(s, Sep)
}

// Depth returns the number of segments below the root segment.
func (t Tag) Depth() int {
	return max(len(t.Segments())-1, 0)
}

// Last returns the final segment of t.
func (t Tag) Last() string {
	segs := t.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Wire returns the wire form of t. It is shorthand for [Encode].
func (t Tag) Wire() string { return Encode(t) }

// Decode converts a wire tag into its canonical form by replacing ";" with
// "/" and appending the trailing "/" that marks a module scope.
//
// Decode fails with an INVALID_TAG error if the wire tag is empty, contains
// a "/" or has an empty segment ("a;;b", ";a", "a;").
func Decode(wire string) (Tag, error) {
	if wire == "" {
		return "", errors.New(errors.ErrCodeInvalidTag, "empty wire tag")
	}
	if strings.Contains(wire, Sep) {
		return "", errors.New(errors.ErrCodeInvalidTag, "wire tag %q contains %q", wire, Sep)
	}
	for _, seg := range strings.Split(wire, WireSep) {
		if seg == "" {
			return "", errors.New(errors.ErrCodeInvalidTag, "wire tag %q has an empty segment", wire)
		}
	}
	return Tag(strings.ReplaceAll(wire, WireSep, Sep) + Sep), nil
}

// MustDecode is like [Decode] but panics on error. Intended for constants
// and tests.
func MustDecode(wire string) Tag {
	t, err := Decode(wire)
	if err != nil {
		panic(err)
	}
	return t
}

// Encode converts a canonical tag into wire form: trailing separators are
// stripped and the remaining "/" become ";".
func Encode(t Tag) string {
	s := strings.TrimRight(string(t), Sep)
	return strings.ReplaceAll(s, Sep, WireSep)
}

// Parent returns t with its last segment removed. At the root, or for any
// tag with a single segment, Parent returns [Root]; it never fails.
func Parent(t Tag) Tag {
	segs := t.Segments()
	if len(segs) <= 1 {
		return Root
	}
	return Tag(strings.Join(segs[:len(segs)-1], Sep) + Sep)
}

// Child appends segment to t. The segment must be a valid path segment;
// in particular it may not contain "/".
func Child(t Tag, segment string) (Tag, error) {
	if err := errors.ValidateSegment(segment); err != nil {
		return "", err
	}
	base := string(t)
	if base == "" {
		base = string(Root)
	}
	if !strings.HasSuffix(base, Sep) {
		base += Sep
	}
	return Tag(base + segment + Sep), nil
}

// ParentWire is the wire-level form of [Parent]: it drops the last ";"
// segment, or yields [RootWire] when there is none.
func ParentWire(wire string) string {
	i := strings.LastIndex(wire, WireSep)
	if i < 0 {
		return RootWire
	}
	return wire[:i]
}
