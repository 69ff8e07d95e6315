// Package pkg provides the core libraries for visunn, a viewer for
// hierarchical neural-network computation graphs.
//
// # Overview
//
// A backend lays out one module of a model at a time and serves it as a
// snapshot: node positions, edges, inputs, outputs and per-node metadata.
// Nodes that are themselves modules can be entered, which fetches the
// snapshot of that nested scope. The pkg directory is organized into four
// areas:
//
//  1. Addressing and data - [tag], [topology]
//  2. Presentation rules - [role], [format]
//  3. Navigation - [store], [view]
//  4. Infrastructure - [cache], [session], [observability], [errors]
//
// # Architecture
//
// The data flow of one navigation:
//
//	user click on "features/"
//	         ↓
//	    [view] controller (role check, canonical → child tag)
//	         ↓
//	    [store] (sequence number, fetch via HTTP + [cache])
//	         ↓
//	    backend GET /api/root;features
//	         ↓
//	    [topology] (decode + validate)
//	         ↓
//	    [store] commit if still the latest request
//	         ↓
//	    [view] state reset, [role] classification, [format] panel text
//
// # Quick Start
//
// Fetch and classify the top-level graph:
//
//	import (
//	    "github.com/matzehuels/visunn/pkg/cache"
//	    "github.com/matzehuels/visunn/pkg/role"
//	    "github.com/matzehuels/visunn/pkg/store"
//	    "github.com/matzehuels/visunn/pkg/tag"
//	)
//
//	f, _ := store.NewHTTPFetcher("http://localhost:5000", "api", cache.NewNullCache())
//	s := store.New(f)
//	commit, _ := s.Request(ctx, tag.Root)
//	roles := role.ClassifyAll(commit.Snapshot)
//
// # Main Packages
//
// [tag] - Module addresses. Canonical tags ("root/encoder/") are what the
// viewer keeps; wire tags ("root;encoder") are what the backend expects.
//
// [topology] - The snapshot format, its JSON codec and structural
// validation.
//
// [role] - Derives whether a node is a module, a graph input, a graph output
// or a plain node, and the color and size each role is drawn with.
//
// [format] - Tensor shape and long-name formatting, and the metadata panel
// sections shown per role.
//
// [store] - The latest-request-wins snapshot store and its HTTP fetcher.
// Responses to superseded requests are discarded.
//
// [view] - Hover, selection, camera and rotation state, and the commands a
// front end binds to keys or buttons.
//
// [render] - Graphviz diagrams of a snapshot and SVG to PDF/PNG conversion.
//
// [cache] - File, Redis and null caches for fetched snapshots.
//
// [session] - Remembers the last module viewed against each backend.
//
// [observability] - Navigation, cache, HTTP and server hooks with a
// Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/store/...    # Specific package
//	go test -run Example       # Examples only
//
// [tag]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/tag
// [topology]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/topology
// [role]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/role
// [format]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/format
// [store]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/store
// [view]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/view
// [render]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/visunn/pkg/errors
package pkg
