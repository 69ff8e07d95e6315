package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/topology"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorLink   = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight for tags and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleIconWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)

	// styleModule colors module names like the viewer does.
	styleModule = lipgloss.NewStyle().Foreground(lipgloss.Color(role.StyleOf(role.Module).Color))
)

const (
	iconOK   = "✓"
	iconWarn = "!"
	iconInfo = "›"
	iconFile = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconOK.Render(iconOK) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarn.Render(iconWarn) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconFile) + " " + StyleValue.Render(path))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Snapshot Output
// =============================================================================

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints node, edge and module counts on a single line.
func printStats(snap *topology.Snapshot) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", snap.NodeCount())),
		StyleDim.Render(fmt.Sprintf("%d edges", snap.EdgeCount())),
	}
	if n := role.Count(role.ClassifyAll(snap))[role.Module]; n > 0 {
		parts = append(parts, styleModule.Render(fmt.Sprintf("%d modules", n)))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printSection prints one titled block of the metadata panel.
func printSection(title string, lines []string) {
	fmt.Println(StyleTitle.Render(title))
	for _, l := range lines {
		fmt.Println("  " + StyleValue.Render(l))
	}
}
