// Package dot renders a graph snapshot as a Graphviz diagram.
//
// Node coordinates come from the backend, so [ToDOT] pins every node at its
// position (pos="x,y!") and [SVG] lays the graph out with neato, which
// honors pinned positions instead of computing a layout of its own.
//
// Nodes are filled with their role color; module nodes are drawn as 3D
// boxes to mark them as navigable.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package dot
