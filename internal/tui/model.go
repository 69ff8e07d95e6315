// Package tui is a terminal renderer for the graph viewer.
//
// It draws the current snapshot on a character canvas, slowly rotating it
// until the user interacts, and shows the hovered node's metadata in a
// sidebar. All interaction goes through a [view.Controller]; the model only
// owns its camera transform and cursor.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/store"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
	"github.com/matzehuels/visunn/pkg/view"
)

const (
	tickInterval  = 50 * time.Millisecond
	rotationSpeed = 0.02 // radians per tick
	sidebarWidth  = 36
	chromeHeight  = 4 // header, status and help lines
	panStep       = 2
	zoomStep      = 1.25
)

// glyphs per role.
var glyphs = map[role.Role]rune{
	role.Module: '■',
	role.Input:  '▲',
	role.Output: '▼',
	role.Node:   '●',
}

type tickMsg time.Time

type navMsg struct {
	commit store.Commit
	err    error
}

// Options configures the model.
type Options struct {
	// Start is requested when the program starts.
	Start tag.Tag

	// OnCommit runs after every committed navigation, e.g. to persist the
	// session.
	OnCommit func(store.Commit)
}

// Model is the bubbletea model of the viewer.
type Model struct {
	ctx  context.Context
	ctl  *view.Controller
	opts Options

	width, height int
	snap          *topology.Snapshot
	bounds        bounds
	names         []string
	cursor        int
	cam           camera
	loading       bool
	status        string
}

// New creates the model. ctx bounds every navigation request.
func New(ctx context.Context, ctl *view.Controller, opts Options) Model {
	if opts.Start == "" {
		opts.Start = tag.Root
	}
	return Model{
		ctx:    ctx,
		ctl:    ctl,
		opts:   opts,
		width:  100,
		height: 30,
		cam:    homeCamera(),
		cursor: -1,
	}
}

// Run starts the viewer and blocks until the user quits.
func Run(ctx context.Context, ctl *view.Controller, opts Options) error {
	p := tea.NewProgram(New(ctx, ctl, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	start := m.opts.Start
	return tea.Batch(tick(), m.navigate(func(ctx context.Context) (store.Commit, error) {
		return m.ctl.Navigate(ctx, start)
	}))
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) navigate(fn func(context.Context) (store.Commit, error)) tea.Cmd {
	m.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		c, err := fn(ctx)
		return navMsg{commit: c, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		m.sync()
		if m.ctl.TakeCameraReset() {
			m.cam = homeCamera()
		}
		if m.ctl.State().Rotating {
			m.cam.angle = math.Mod(m.cam.angle+rotationSpeed, 2*math.Pi)
		}
		return m, tick()
	case navMsg:
		return m.handleNav(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleNav(msg navMsg) Model {
	if errors.IsSuperseded(msg.err) {
		return m
	}
	m.loading = false
	if msg.err != nil {
		m.status = errors.UserMessage(msg.err)
		return m
	}
	if msg.commit.Seq == 0 {
		return m
	}
	m.status = ""
	m.sync()
	if m.opts.OnCommit != nil {
		m.opts.OnCommit(msg.commit)
	}
	return m
}

// sync picks up a newly committed snapshot from the controller.
func (m *Model) sync() {
	f := m.ctl.Frame()
	if f.Snapshot == m.snap {
		return
	}
	m.snap = f.Snapshot
	m.bounds = boundsOf(f.Snapshot)
	m.names = nil
	if f.Snapshot != nil {
		m.names = f.Snapshot.Names()
	}
	m.cursor = -1
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "down", "j", "tab":
		m.moveCursor(1)
	case "up", "k", "shift+tab":
		m.moveCursor(-1)
	case "enter":
		if name := m.hovered(); name != "" {
			cmd := m.navigate(func(ctx context.Context) (store.Commit, error) {
				return m.ctl.Click(ctx, name)
			})
			return m, cmd
		}
	case "backspace", "b":
		if m.ctl.HasPrevious() {
			cmd := m.navigate(m.ctl.Previous)
			return m, cmd
		}
	case "home", "g":
		cmd := m.navigate(m.ctl.Root)
		return m, cmd
	case "r":
		m.ctl.ResetRotation()
	case "p":
		m.ctl.ResetPosition()
	case "left", "h":
		m.interact()
		m.cam.angle -= 0.1
	case "right", "l":
		m.interact()
		m.cam.angle += 0.1
	case "w":
		m.interact()
		m.cam.panY -= panStep
	case "s":
		m.interact()
		m.cam.panY += panStep
	case "a":
		m.interact()
		m.cam.panX -= panStep
	case "d":
		m.interact()
		m.cam.panX += panStep
	case "+", "=":
		m.interact()
		m.cam.zoom *= zoomStep
	case "-":
		m.interact()
		m.cam.zoom /= zoomStep
	}
	return m, nil
}

// interact is a user-initiated gesture on the canvas.
func (m *Model) interact() {
	m.ctl.PointerDown(true)
}

func (m *Model) moveCursor(delta int) {
	m.sync()
	if len(m.names) == 0 {
		return
	}
	if prev := m.hovered(); prev != "" {
		m.ctl.PointerOut(prev)
	}
	m.cursor = (m.cursor + delta + len(m.names)) % len(m.names)
	m.ctl.PointerOver(m.names[m.cursor])
}

func (m Model) hovered() string {
	return m.ctl.State().HoveredName
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := msg.X, msg.Y-1 // canvas starts below the header
	w, _ := m.canvasSize()
	onCanvas := x < w && y >= 0
	name := m.nodeAt(x, y)

	switch {
	case msg.Action == tea.MouseActionMotion:
		if prev := m.hovered(); prev != "" && prev != name {
			m.ctl.PointerOut(prev)
		}
		if name != "" {
			m.ctl.PointerOver(name)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.ctl.PointerDown(onCanvas)
		if name != "" {
			cmd := m.navigate(func(ctx context.Context) (store.Commit, error) {
				return m.ctl.Click(ctx, name)
			})
			return m, cmd
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.interact()
		m.cam.zoom *= zoomStep
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.interact()
		m.cam.zoom /= zoomStep
	}
	return m, nil
}

// nodeAt returns the node drawn at canvas cell (x, y).
func (m Model) nodeAt(x, y int) string {
	if m.snap == nil {
		return ""
	}
	w, h := m.canvasSize()
	for _, name := range m.names {
		col, row := m.cam.project(m.snap.Coords[name], m.bounds, w, h)
		if col == x && row == y {
			return name
		}
	}
	return ""
}

func (m Model) canvasSize() (int, int) {
	return max(m.width-sidebarWidth-2, 10), max(m.height-chromeHeight, 5)
}

func (m Model) View() string {
	w, h := m.canvasSize()
	frame := m.ctl.Frame()

	var b strings.Builder
	b.WriteString(m.header(frame))
	b.WriteString("\n")

	graph := m.drawGraph(frame, w, h)
	sidebar := styleSidebar.Width(sidebarWidth - 2).Height(h - 2).Render(m.sidebar())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, graph, " ", sidebar))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(styleError.Render("✗ " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help(frame))
	return b.String()
}

func (m Model) header(f view.Frame) string {
	title := styleTitle.Render("visunn") + " " + styleValue.Render(f.State.SelectedTag.Wire())
	if m.loading {
		title += styleDim.Render("  loading…")
	}
	if f.Snapshot != nil {
		counts := role.Count(f.Roles)
		title += styleDim.Render(fmt.Sprintf("  %d nodes · %d modules · %d edges",
			f.Snapshot.NodeCount(), counts[role.Module], f.Snapshot.EdgeCount()))
	}
	return title
}

func (m Model) drawGraph(f view.Frame, w, h int) string {
	c := newCanvas(w, h)
	if f.Snapshot == nil {
		c.text(1, 0, "no module loaded", "")
		return c.render()
	}
	b := boundsOf(f.Snapshot)

	for _, sg := range f.Snapshot.Segments() {
		x0, y0 := m.cam.project(sg.A, b, w, h)
		x1, y1 := m.cam.project(sg.B, b, w, h)
		c.line(x0, y0, x1, y1, edgeColor)
	}

	for _, name := range f.Snapshot.Names() {
		r := f.Roles[name]
		x, y := m.cam.project(f.Snapshot.Coords[name], b, w, h)
		c.set(x, y, glyphs[r], role.ColorFor(r, name == f.State.HoveredName))
	}

	if f.State.Hovering() {
		x, y := m.cam.project(f.Snapshot.Coords[f.State.HoveredName], b, w, h)
		if lines, ok := m.ctl.Label(); ok {
			for i, line := range lines {
				c.text(x+2, y+i, strings.TrimLeft(line, " "), string(colorWhite))
			}
		}
	}
	return c.render()
}

func (m Model) sidebar() string {
	sections := m.ctl.Sidebar()
	if len(sections) == 0 {
		return styleDim.Render("hover a node with ↑/↓")
	}
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(styleSection.Render(s.Title))
		for _, line := range s.Lines {
			b.WriteString("\n")
			b.WriteString(styleValue.Render(line))
		}
	}
	return b.String()
}

func (m Model) help(f view.Frame) string {
	keys := map[view.Command]string{
		view.ResetRotation:  "r",
		view.ResetPosition:  "p",
		view.PreviousModule: "⌫",
		view.RootModule:     "g",
	}
	parts := []string{"↑/↓ hover", "⏎ open"}
	for _, cmd := range view.Commands {
		if cmd == view.PreviousModule && f.State.SelectedTag.IsRoot() {
			continue
		}
		parts = append(parts, keys[cmd]+" "+cmd.String())
	}
	parts = append(parts, "←/→ rotate", "wasd pan", "q quit")
	return styleDim.Render(strings.Join(parts, "  "))
}
