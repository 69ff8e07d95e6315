// Package topology defines the graph snapshot that the backend serves for one
// module scope, together with its JSON codec and invariant checks.
//
// A [Snapshot] is valid only for the tag it was fetched with. It is replaced
// wholesale on navigation and never mutated in place, so one value can be
// shared freely between the store, the view controller and a renderer.
//
// # Wire Format
//
//	{
//	  "coords":  {"conv1": [0.1, 0.4], "block/": [0.5, 0.5]},
//	  "edges":   {"block/": ["conv1"]},
//	  "inputs":  ["conv1"],
//	  "outputs": ["block/"],
//	  "meta":    {"conv1": {"name": "conv1", "op": "aten::conv2d",
//	              "input_shapes": [[1, 3, 32, 32]], "output_shapes": [[1, 8, 30, 30]]}}
//	}
//
// Names ending in "/" are nested modules; all other names are leaf ops.
//
// # Invariants
//
// [Snapshot.Validate] enforces that every name referenced by an edge (either
// end) and every name in inputs or outputs is a key of coords. [Decode] and
// [ReadFile] always validate, so a decoded snapshot can be rendered without
// further checks.
package topology
