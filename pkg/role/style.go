package role

// Style is the visual treatment of a role: box colors as hex RGB and the
// edge length of the cube drawn for the node.
type Style struct {
	Color      string
	HoverColor string
	Size       float64
}

var (
	moduleStyle = Style{Color: "#4834D4", HoverColor: "#EB4D4B", Size: 1.5}
	inputStyle  = Style{Color: "#22A6B3", HoverColor: "#22A6B3", Size: 0.75}
	outputStyle = Style{Color: "#F0932B", HoverColor: "#F0932B", Size: 0.75}
	nodeStyle   = Style{Color: "#535C68", HoverColor: "#535C68", Size: 0.5}
)

// StyleOf returns the style for r. Unknown values fall back to the plain
// node style.
func StyleOf(r Role) Style {
	switch r {
	case Module:
		return moduleStyle
	case Input:
		return inputStyle
	case Output:
		return outputStyle
	case Node:
		return nodeStyle
	default:
		return nodeStyle
	}
}

// ColorFor returns the fill color for r, using the hover color if hovered.
func ColorFor(r Role, hovered bool) string {
	s := StyleOf(r)
	if hovered {
		return s.HoverColor
	}
	return s.Color
}
