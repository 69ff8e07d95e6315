package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/visunn/pkg/format"
	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/topology"
)

// DefaultScale converts backend coordinate units to inches.
const DefaultScale = 2.0

// Options configures diagram generation.
type Options struct {
	// Detailed adds the op and output shapes below the node name.
	Detailed bool

	// Scale multiplies backend coordinates. Zero means DefaultScale.
	Scale float64

	// Highlight is drawn with its role's hover color.
	Highlight string
}

// ToDOT converts a snapshot to Graphviz DOT source.
// Nodes and edges are emitted in sorted order so the output is stable.
func ToDOT(snap *topology.Snapshot, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	roles := role.ClassifyAll(snap)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [color=\"#95A5A6\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, name := range snap.Names() {
		p := snap.Coords[name]
		r := roles[name]
		attrs := fmtAttrs(r, name == opts.Highlight, fmtLabel(snap, name, opts.Detailed))
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(p.X()*scale), fmtFloat(p.Y()*scale)))
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, sg := range snap.Segments() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", sg.From, sg.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(snap *topology.Snapshot, name string, detailed bool) string {
	lines := format.FormatName(name)
	if len(lines) == 0 {
		return name
	}
	short := strings.TrimLeft(lines[len(lines)-1], " ")
	if !detailed {
		return short
	}
	meta, ok := snap.Metadata(name)
	if !ok {
		return name
	}
	parts := []string{name}
	if meta.Op != "" {
		parts = append(parts, meta.Op)
	}
	parts = append(parts, format.FormatShapes(meta.OutputShapes)...)
	return strings.Join(parts, "\n")
}

func fmtAttrs(r role.Role, highlighted bool, label string) []string {
	style := role.StyleOf(r)
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", role.ColorFor(r, highlighted)),
		fmt.Sprintf("width=%s", fmtFloat(style.Size)),
	}
	if r == role.Module {
		attrs = append(attrs, "shape=box3d", "style=\"filled,bold\"")
	}
	return attrs
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SVG lays out DOT source with neato and returns the SVG document. The root
// element's point sizes are rewritten as unitless lengths so the drawing
// scales with its viewBox.
func SVG(ctx context.Context, src string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return unitlessRoot(buf.Bytes()), nil
}

var pointSizeRe = regexp.MustCompile(`\b(width|height)="([0-9.]+)pt"`)

// unitlessRoot drops the pt unit from width and height of the <svg> element.
// Nested elements are left alone.
func unitlessRoot(svg []byte) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start

	root := pointSizeRe.ReplaceAll(svg[start:end], []byte(`$1="$2"`))
	out := make([]byte, 0, len(svg))
	out = append(out, svg[:start]...)
	out = append(out, root...)
	return append(out, svg[end:]...)
}
