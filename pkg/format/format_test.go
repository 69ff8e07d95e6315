package format

import (
	"reflect"
	"testing"

	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/topology"
)

func TestFormatShapes(t *testing.T) {
	tests := []struct {
		name   string
		shapes []topology.Shape
		want   []string
	}{
		{"Multiple", []topology.Shape{{3, 4}, {5}}, []string{"[3, 4]", "[5]"}},
		{"Empty", []topology.Shape{}, []string{}},
		{"Nil", nil, []string{}},
		{"Scalar", []topology.Shape{{}}, []string{"[]"}},
		{"Batch", []topology.Shape{{1, 3, 224, 224}}, []string{"[1, 3, 224, 224]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatShapes(tt.shapes)
			if got == nil {
				t.Fatal("FormatShapes() returned nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FormatShapes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"root/block/conv/", []string{"root/", "   block/", "      conv/"}},
		{"block/relu", []string{"block/", "   relu"}},
		{"relu", []string{"relu"}},
		{"features/", []string{"features/"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatName(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FormatName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func titles(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Title
	}
	return out
}

func TestSections(t *testing.T) {
	full := topology.NodeMetadata{
		Name:         "block/conv",
		Op:           "aten::conv2d",
		Input:        []string{"x"},
		InputShapes:  []topology.Shape{{1, 3, 8, 8}},
		OutputShapes: []topology.Shape{{1, 4, 6, 6}},
		Params:       []string{"weight"},
	}

	tests := []struct {
		name string
		meta topology.NodeMetadata
		role role.Role
		want []string
	}{
		{
			name: "Node",
			meta: full,
			role: role.Node,
			want: []string{TitleName, TitleOp, TitleInputs, TitleInputShapes, TitleOutputShapes},
		},
		{
			name: "Module",
			meta: full,
			role: role.Module,
			want: []string{TitleName, TitleOp, TitleInputs, TitleInputShapes, TitleOutputShapes, TitleParams},
		},
		{
			name: "InputHidesInputs",
			meta: full,
			role: role.Input,
			want: []string{TitleName, TitleOp, TitleOutputShapes},
		},
		{
			name: "OutputHidesOutputs",
			meta: full,
			role: role.Output,
			want: []string{TitleName, TitleOp, TitleInputs, TitleInputShapes},
		},
		{
			name: "ParamOpHidesInputs",
			meta: topology.NodeMetadata{Name: "w", Op: topology.ParamOp, Input: []string{"x"}, OutputShapes: []topology.Shape{{4}}},
			role: role.Node,
			want: []string{TitleName, TitleOp, TitleOutputShapes},
		},
		{
			name: "NoShapes",
			meta: topology.NodeMetadata{Name: "relu", Op: "aten::relu"},
			role: role.Node,
			want: []string{TitleName, TitleOp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Sections(tt.meta, tt.role))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sections() titles = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSectionsContent(t *testing.T) {
	meta := topology.NodeMetadata{
		Name:        "enc/attn/",
		Op:          topology.ModuleOp,
		InputShapes: []topology.Shape{{2, 5}, {2}},
		Params:      []string{"q.weight", "k.weight"},
	}
	sections := Sections(meta, role.Module)

	name, _ := Find(sections, TitleName)
	if !reflect.DeepEqual(name.Lines, []string{"enc/", "   attn/"}) {
		t.Errorf("name lines = %q", name.Lines)
	}
	shapes, ok := Find(sections, TitleInputShapes)
	if !ok || !reflect.DeepEqual(shapes.Lines, []string{"[2, 5]", "[2]"}) {
		t.Errorf("input shapes = %q, ok = %v", shapes.Lines, ok)
	}
	params, ok := Find(sections, TitleParams)
	if !ok || len(params.Lines) != 2 {
		t.Errorf("params = %q, ok = %v", params.Lines, ok)
	}
	if _, ok := Find(sections, TitleOutputShapes); ok {
		t.Error("empty output shapes should be omitted")
	}
}
