package view

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/format"
	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/store"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
)

// Navigator is the part of [store.Store] the controller depends on.
type Navigator interface {
	Request(ctx context.Context, t tag.Tag) (store.Commit, error)
	Current() (tag.Tag, *topology.Snapshot)
	OnCommit(fn func(store.Commit))
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	Snapshot *topology.Snapshot
	Roles    map[string]role.Role
	State    State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for state transitions.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller owns the view state and turns user input into navigation
// requests.
//
// Lock order is store before controller: the commit hook runs under the
// store lock and takes the controller lock, so no controller method calls
// into the store while holding its own lock.
type Controller struct {
	nav    Navigator
	logger *log.Logger

	mu    sync.Mutex
	snap  *topology.Snapshot
	roles map[string]role.Role
	state State
}

// NewController attaches a controller to nav. If nav already holds a
// snapshot the controller starts from it.
func NewController(nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		nav:    nav,
		logger: log.New(io.Discard),
		roles:  map[string]role.Role{},
		state:  State{SelectedTag: tag.Root, Rotating: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	nav.OnCommit(c.reset)

	if t, snap := nav.Current(); snap != nil {
		c.mu.Lock()
		if c.snap == nil {
			c.install(t, snap)
		}
		c.mu.Unlock()
	}
	return c
}

func (c *Controller) reset(commit store.Commit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.install(commit.Tag, commit.Snapshot)
	c.logger.Debug("view reset", "tag", commit.Tag.Wire(), "seq", commit.Seq)
}

func (c *Controller) install(t tag.Tag, snap *topology.Snapshot) {
	c.snap = snap
	c.roles = role.ClassifyAll(snap)
	c.state = committed(t)
}

// Frame returns the current snapshot, roles and state. The returned roles
// map is replaced, never mutated, on commit.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Frame{Snapshot: c.snap, Roles: c.roles, State: c.state}
}

// State returns a copy of the view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TakeCameraReset reports whether the camera must be re-homed in this pass
// and clears the flag.
func (c *Controller) TakeCameraReset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	reset := c.state.CameraReset
	c.state.CameraReset = false
	return reset
}

// PointerOver marks name as hovered. Names outside the current snapshot are
// ignored.
func (c *Controller) PointerOver(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil || !c.snap.Has(name) {
		return
	}
	c.state.HoveredName = name
}

// PointerOut clears the hover if name is the hovered node.
func (c *Controller) PointerOut(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.HoveredName == name {
		c.state.HoveredName = ""
	}
}

// PointerDown stops auto-rotation when the press lands on the canvas.
func (c *Controller) PointerDown(onCanvas bool) {
	if !onCanvas {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Rotating {
		c.logger.Debug("rotation stopped")
	}
	c.state.Rotating = false
}

// ResetRotation restarts auto-rotation.
func (c *Controller) ResetRotation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Rotating = true
}

// ResetPosition asks the renderer to re-home the camera.
func (c *Controller) ResetPosition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CameraReset = true
}

// HasPrevious reports whether there is a parent module to go back to.
func (c *Controller) HasPrevious() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.state.SelectedTag.IsRoot()
}

// Color returns the display color of name, taking hover into account.
func (c *Controller) Color(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return role.ColorFor(c.roles[name], name == c.state.HoveredName)
}

// ClickTarget returns the tag a click on name would navigate to. ok is false
// for nodes that are not modules.
func (c *Controller) ClickTarget(name string) (t tag.Tag, ok bool, err error) {
	c.mu.Lock()
	snap, current := c.snap, c.state.SelectedTag
	c.mu.Unlock()

	if snap == nil || !snap.Has(name) {
		return "", false, errors.New(errors.ErrCodeNodeNotFound, "node %q not in current module", name)
	}
	if !role.Classify(name, snap).Clickable() {
		return "", false, nil
	}
	t, err = tag.Child(current, strippedName(name))
	if err != nil {
		return "", false, err
	}
	return t, true, nil
}

// Click navigates into name if it is a module. Clicking any other node is a
// no-op and returns a zero Commit.
func (c *Controller) Click(ctx context.Context, name string) (store.Commit, error) {
	t, ok, err := c.ClickTarget(name)
	if err != nil || !ok {
		return store.Commit{}, err
	}
	c.logger.Debug("enter module", "name", name, "tag", t.Wire())
	return c.nav.Request(ctx, t)
}

// Navigate requests an arbitrary tag.
func (c *Controller) Navigate(ctx context.Context, t tag.Tag) (store.Commit, error) {
	return c.nav.Request(ctx, t)
}

// Previous navigates to the parent module. At the root it does nothing and
// returns a zero Commit.
func (c *Controller) Previous(ctx context.Context) (store.Commit, error) {
	current := c.State().SelectedTag
	if current.IsRoot() {
		return store.Commit{}, nil
	}
	return c.nav.Request(ctx, tag.Parent(current))
}

// Root navigates to the root module unless it is already shown.
func (c *Controller) Root(ctx context.Context) (store.Commit, error) {
	if c.State().SelectedTag.IsRoot() && c.Frame().Snapshot != nil {
		return store.Commit{}, nil
	}
	return c.nav.Request(ctx, tag.Root)
}

// Do runs a control command.
func (c *Controller) Do(ctx context.Context, cmd Command) (store.Commit, error) {
	switch cmd {
	case ResetRotation:
		c.ResetRotation()
	case ResetPosition:
		c.ResetPosition()
	case PreviousModule:
		return c.Previous(ctx)
	case RootModule:
		return c.Root(ctx)
	default:
		return store.Commit{}, errors.New(errors.ErrCodeInvalidInput, "unknown command %d", int(cmd))
	}
	return store.Commit{}, nil
}

// Label returns the hover label of the hovered node: its name lines
// followed by its op. ok is false when nothing is hovered.
func (c *Controller) Label() (lines []string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := c.state.HoveredName
	if name == "" || c.snap == nil {
		return nil, false
	}
	lines = format.FormatName(name)
	if meta, found := c.snap.Metadata(name); found && meta.Op != "" {
		lines = append(lines, meta.Op)
	}
	return lines, true
}

// Sidebar returns the metadata sections of the hovered node, or nil when
// nothing is hovered.
func (c *Controller) Sidebar() []format.Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := c.state.HoveredName
	if name == "" || c.snap == nil {
		return nil
	}
	meta, found := c.snap.Metadata(name)
	if !found {
		meta = topology.NodeMetadata{Name: name}
	}
	if meta.Name == "" {
		meta.Name = name
	}
	return format.Sections(meta, c.roles[name])
}

// strippedName is the path segment a module node contributes to a tag:
// the last segment of its name without the trailing separator.
func strippedName(name string) string {
	name = strings.TrimSuffix(name, topology.ModuleSuffix)
	if i := strings.LastIndex(name, tag.Sep); i >= 0 {
		name = name[i+1:]
	}
	return name
}
