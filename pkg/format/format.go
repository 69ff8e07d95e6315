// Package format turns raw node metadata into display-ready text.
//
// Nothing in this package fails: missing shapes, params or inputs are a
// normal state and simply produce empty output, so a renderer can call these
// functions for any node of a valid snapshot.
package format

import (
	"strconv"
	"strings"

	"github.com/matzehuels/visunn/pkg/topology"
)

// Indent is the per-depth indentation of [FormatName] lines.
const Indent = "   "

// FormatShape renders one shape as a bracketed, comma-joined list of
// dimension sizes, e.g. [3, 4].
func FormatShape(shape topology.Shape) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range shape {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(']')
	return b.String()
}

// FormatShapes renders each shape with [FormatShape]. It returns an empty,
// non-nil slice when there are no shapes.
func FormatShapes(shapes []topology.Shape) []string {
	out := make([]string, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, FormatShape(s))
	}
	return out
}

// FormatName renders a hierarchical name as breadcrumb lines, one per
// segment, each indented by its depth. Every line but the last keeps its
// "/"; the last line ends in "/" only if name denotes a module.
//
//	FormatName("root/block/conv/")  // "root/", "   block/", "      conv/"
//	FormatName("block/relu")        // "block/", "   relu"
func FormatName(name string) []string {
	if name == "" {
		return []string{}
	}
	module := topology.IsModule(name)
	segs := strings.Split(strings.TrimSuffix(name, topology.ModuleSuffix), "/")

	lines := make([]string, 0, len(segs))
	for i, seg := range segs {
		line := strings.Repeat(Indent, i) + seg
		if i < len(segs)-1 || module {
			line += "/"
		}
		lines = append(lines, line)
	}
	return lines
}
