package topology

import (
	"maps"
	"slices"
	"strings"
)

// ModuleSuffix marks a node name as a nested module.
const ModuleSuffix = "/"

// ParamOp is the op of parameter nodes, which never show an inputs section.
const ParamOp = "visu::param"

// ModuleOp is the op the backend assigns to module nodes.
const ModuleOp = "visu::module"

// Point is a pre-computed 2D node position, serialized as [x, y].
type Point [2]float64

// X returns the horizontal coordinate.
func (p Point) X() float64 { return p[0] }

// Y returns the vertical coordinate.
func (p Point) Y() float64 { return p[1] }

// Shape is one tensor shape as a list of dimension sizes.
type Shape []int

// NodeMetadata is the per-node record shown on hover.
type NodeMetadata struct {
	Name         string   `json:"name"`
	Op           string   `json:"op"`
	Input        []string `json:"input,omitempty"`
	Output       []string `json:"output,omitempty"`
	InputShapes  []Shape  `json:"input_shapes"`
	OutputShapes []Shape  `json:"output_shapes"`
	Params       []string `json:"params,omitempty"`
}

// IsModule reports whether name denotes a nested module.
func IsModule(name string) bool {
	return strings.HasSuffix(name, ModuleSuffix)
}

// Snapshot is the complete description of one module's immediate contents.
type Snapshot struct {
	Coords  map[string]Point        `json:"coords"`
	Edges   map[string][]string     `json:"edges"`
	Inputs  []string                `json:"inputs"`
	Outputs []string                `json:"outputs"`
	Meta    map[string]NodeMetadata `json:"meta"`

	idx *index
}

// index holds set views of Inputs and Outputs, built once by Validate.
type index struct {
	inputs  map[string]struct{}
	outputs map[string]struct{}
}

func newIndex(s *Snapshot) *index {
	idx := &index{
		inputs:  make(map[string]struct{}, len(s.Inputs)),
		outputs: make(map[string]struct{}, len(s.Outputs)),
	}
	for _, n := range s.Inputs {
		idx.inputs[n] = struct{}{}
	}
	for _, n := range s.Outputs {
		idx.outputs[n] = struct{}{}
	}
	return idx
}

// IsInput reports whether name is a graph-level input terminal.
func (s *Snapshot) IsInput(name string) bool {
	if s.idx != nil {
		_, ok := s.idx.inputs[name]
		return ok
	}
	return slices.Contains(s.Inputs, name)
}

// IsOutput reports whether name is a graph-level output terminal.
func (s *Snapshot) IsOutput(name string) bool {
	if s.idx != nil {
		_, ok := s.idx.outputs[name]
		return ok
	}
	return slices.Contains(s.Outputs, name)
}

// Has reports whether name is a node of the snapshot.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.Coords[name]
	return ok
}

// Names returns all node names sorted lexically.
func (s *Snapshot) Names() []string {
	return slices.Sorted(maps.Keys(s.Coords))
}

// Metadata returns the metadata of name, if the backend sent any.
func (s *Snapshot) Metadata(name string) (NodeMetadata, bool) {
	m, ok := s.Meta[name]
	return m, ok
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.Coords) }

// EdgeCount returns the number of input → node connections.
func (s *Snapshot) EdgeCount() int {
	n := 0
	for _, ins := range s.Edges {
		n += len(ins)
	}
	return n
}

// Segment is one drawable edge between two positioned nodes.
type Segment struct {
	From string // input node
	To   string // consuming node
	A, B Point  // positions of From and To
}

// Key identifies the segment as "from->to".
func (sg Segment) Key() string { return sg.From + "->" + sg.To }

// Segments returns one segment per input → node pair, ordered by consuming
// node name and then by input order. Pairs whose endpoints lack coordinates
// are skipped; a validated snapshot has none.
func (s *Snapshot) Segments() []Segment {
	var out []Segment
	for _, to := range slices.Sorted(maps.Keys(s.Edges)) {
		b, ok := s.Coords[to]
		if !ok {
			continue
		}
		for _, from := range s.Edges[to] {
			a, ok := s.Coords[from]
			if !ok {
				continue
			}
			out = append(out, Segment{From: from, To: to, A: a, B: b})
		}
	}
	return out
}
