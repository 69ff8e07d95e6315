package format

import (
	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/topology"
)

// Section titles in display order.
const (
	TitleName         = "name"
	TitleOp           = "op"
	TitleInputs       = "inputs"
	TitleInputShapes  = "input shapes"
	TitleOutputShapes = "output shapes"
	TitleParams       = "params"
)

// Section is one titled block of the metadata panel.
type Section struct {
	Title string
	Lines []string
}

// Sections builds the metadata panel for a node of role r.
//
// Every node shows its name and op. Input nodes and parameter nodes never
// show the inputs or input shapes sections, output nodes never show output
// shapes, and only modules show params. Sections without entries are left
// out.
func Sections(meta topology.NodeMetadata, r role.Role) []Section {
	out := []Section{
		{Title: TitleName, Lines: FormatName(meta.Name)},
		{Title: TitleOp, Lines: []string{meta.Op}},
	}

	if showsInputs(meta, r) {
		out = appendNonEmpty(out, TitleInputs, meta.Input)
		out = appendNonEmpty(out, TitleInputShapes, FormatShapes(meta.InputShapes))
	}
	if r != role.Output {
		out = appendNonEmpty(out, TitleOutputShapes, FormatShapes(meta.OutputShapes))
	}
	if r == role.Module {
		out = appendNonEmpty(out, TitleParams, meta.Params)
	}
	return out
}

func showsInputs(meta topology.NodeMetadata, r role.Role) bool {
	return r != role.Input && meta.Op != topology.ParamOp
}

func appendNonEmpty(out []Section, title string, lines []string) []Section {
	if len(lines) == 0 {
		return out
	}
	return append(out, Section{Title: title, Lines: lines})
}

// Find returns the section with the given title.
func Find(sections []Section, title string) (Section, bool) {
	for _, s := range sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}
