// Package render exports graph snapshots to static image formats.
//
// [Render] is the single entry point. The [dot] subpackage turns a snapshot
// into Graphviz DOT with every node pinned at its backend coordinates and
// lays it out to SVG in-process; PDF and PNG are rasterized from that SVG by
// the external rsvg-convert tool (from librsvg).
//
//	f, err := render.ParseFormat("png")
//	data, err := render.Render(ctx, snap, f, render.Options{
//		Diagram:  dot.Options{Detailed: true},
//		PNGScale: 3,
//	})
//
// [dot]: github.com/matzehuels/visunn/pkg/render/dot
package render
