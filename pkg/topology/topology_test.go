package topology

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/visunn/pkg/errors"
)

func sample() *Snapshot {
	return &Snapshot{
		Coords: map[string]Point{
			"x":      {0, 0},
			"block/": {1, 1},
			"relu":   {2, 2},
			"output": {3, 3},
		},
		Edges: map[string][]string{
			"block/": {"x"},
			"relu":   {"block/"},
			"output": {"relu"},
		},
		Inputs:  []string{"x"},
		Outputs: []string{"output"},
		Meta: map[string]NodeMetadata{
			"relu": {Name: "relu", Op: "aten::relu"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Snapshot)
		wantErr string
	}{
		{
			name:   "Valid",
			mutate: func(s *Snapshot) {},
		},
		{
			name:    "MissingCoords",
			mutate:  func(s *Snapshot) { s.Coords = nil },
			wantErr: "missing coords",
		},
		{
			name:    "EdgeSourceUnknown",
			mutate:  func(s *Snapshot) { s.Edges["relu"] = []string{"ghost"} },
			wantErr: `unknown node "ghost"`,
		},
		{
			name:    "EdgeTargetUnknown",
			mutate:  func(s *Snapshot) { s.Edges["ghost"] = []string{"x"} },
			wantErr: `edge target "ghost"`,
		},
		{
			name:    "InputUnknown",
			mutate:  func(s *Snapshot) { s.Inputs = append(s.Inputs, "ghost") },
			wantErr: `input "ghost"`,
		},
		{
			name:    "OutputUnknown",
			mutate:  func(s *Snapshot) { s.Outputs = []string{"ghost"} },
			wantErr: `output "ghost"`,
		},
		{
			name:   "EmptyGraph",
			mutate: func(s *Snapshot) { *s = Snapshot{Coords: map[string]Point{}} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.IsMalformedSnapshot(err) {
				t.Fatalf("Validate() error = %v, want MALFORMED_SNAPSHOT", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexMatchesSlices(t *testing.T) {
	s := sample()
	before := []bool{s.IsInput("x"), s.IsOutput("output"), s.IsInput("relu")}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	after := []bool{s.IsInput("x"), s.IsOutput("output"), s.IsInput("relu")}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("index lookups %v differ from slice lookups %v", after, before)
	}
	if !reflect.DeepEqual(after, []bool{true, true, false}) {
		t.Errorf("lookups = %v", after)
	}
}

func TestSegments(t *testing.T) {
	s := sample()
	var keys []string
	for _, sg := range s.Segments() {
		keys = append(keys, sg.Key())
	}
	want := []string{"x->block/", "relu->output", "block/->relu"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Segments() keys = %v, want %v", keys, want)
	}

	first := s.Segments()[0]
	if first.A != (Point{0, 0}) || first.B != (Point{1, 1}) {
		t.Errorf("segment endpoints = %v, %v", first.A, first.B)
	}
}

func TestCounts(t *testing.T) {
	s := sample()
	if s.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", s.NodeCount())
	}
	if s.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", s.EdgeCount())
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"block/", "output", "relu", "x"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestReadFile(t *testing.T) {
	s, err := ReadFile(filepath.Join("testdata", "root.json"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if s.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", s.NodeCount())
	}
	meta, ok := s.Metadata("features/")
	if !ok {
		t.Fatal("missing metadata for features/")
	}
	if meta.Op != ModuleOp {
		t.Errorf("op = %q, want %q", meta.Op, ModuleOp)
	}
	if !reflect.DeepEqual(meta.OutputShapes, []Shape{{1, 64, 8, 8}}) {
		t.Errorf("output shapes = %v", meta.OutputShapes)
	}
	if len(meta.Params) != 2 {
		t.Errorf("params = %v", meta.Params)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NotJSON", "<html>"},
		{"MissingCoords", `{"edges": {}}`},
		{"DanglingEdge", `{"coords": {"a": [0, 0]}, "edges": {"a": ["b"]}}`},
		{"DanglingOutput", `{"coords": {"a": [0, 0]}, "outputs": ["b"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			if !errors.IsMalformedSnapshot(err) {
				t.Errorf("Decode() error = %v, want MALFORMED_SNAPSHOT", err)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	s := sample()
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(got.Coords, s.Coords) || !reflect.DeepEqual(got.Edges, s.Edges) {
		t.Error("decoded snapshot differs from original")
	}
	if !got.IsInput("x") || !got.IsOutput("output") {
		t.Error("decoded snapshot lost terminal sets")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := WriteFile(sample(), path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", got.NodeCount())
	}
}

func TestIsModule(t *testing.T) {
	if !IsModule("block/") || IsModule("relu") || IsModule("") {
		t.Error("IsModule() misclassifies names")
	}
}

func TestMissingShapesEncodeAsEmptyLists(t *testing.T) {
	s, err := Unmarshal([]byte(`{
		"coords": {"relu": [0, 0]},
		"edges": {},
		"inputs": [],
		"outputs": [],
		"meta": {"relu": {"name": "relu", "op": "aten::relu"}}
	}`))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	meta := s.Meta["relu"]
	if meta.InputShapes == nil || meta.OutputShapes == nil {
		t.Fatalf("shape lists left nil: %+v", meta)
	}

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("Marshal() = %s, want no null shape lists", data)
	}
	if !strings.Contains(string(data), `"input_shapes":[]`) {
		t.Errorf("Marshal() = %s, want empty input_shapes", data)
	}
}
