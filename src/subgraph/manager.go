package subgraph

import (
	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/types"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options wires the manager to its collaborators.
type Options struct {
	// Width and Height size the secondary surface; zero means DefaultWidth x DefaultHeight.
	Width  int
	Height int

	Geometry Geometry // converts pointer coordinates for the drag controller
	Boxes    BoxLayer // optional selection rectangle feedback
	View     View
	Surfaces SurfaceFactory
}

// Manager owns the drill-down overlay: it resolves finished drags, builds the scoped series, creates and
// tears down the secondary surface and keeps it in sync with the parent chart.
type Manager struct {
	host    Host
	opts    Options
	locator *Locator
	ctrl    *Controller

	rng     types.SelectionRange
	scoped  *ScopedSet
	surface Surface
}

// New binds a manager to host. A missing host, view or surface factory is a programming error and
// fails immediately.
func New(host Host, opts Options) (*Manager, error) {
	if host == nil {
		return nil, ErrNoHost
	}
	if opts.Surfaces == nil {
		return nil, ErrNoSurface
	}
	if opts.View == nil {
		return nil, ErrNoView
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	m := &Manager{host: host, opts: opts, locator: NewLocator(host, host)}
	m.ctrl = NewController(opts.Geometry, opts.Boxes, func(xMin, xMax float64) { m.ShowSelection(xMin, xMax) })
	host.OnUpdate(m.handleUpdate)
	opts.View.SetDismissVisible(false)
	return m, nil
}

// Controller is the pointer input port for the parent chart.
func (m *Manager) Controller() *Controller { return m.ctrl }

// Locator returns the parent chart's nearest-point locator.
func (m *Manager) Locator() *Locator { return m.locator }

// Active reports whether an overlay is open.
func (m *Manager) Active() bool { return m.surface != nil }

// Range returns the selected domain range of the open overlay.
func (m *Manager) Range() (types.SelectionRange, bool) {
	if m.surface == nil {
		return types.SelectionRange{}, false
	}
	return m.rng, true
}

// Scoped returns the overlay's scoped series, nil when no overlay is open.
func (m *Manager) Scoped() *ScopedSet { return m.scoped }

// ShowSelection opens an overlay for the pixel range [xMin, xMax] of the parent chart. Both bounds snap to
// the nearest data points; when either bound resolves to nothing no overlay is opened and false is returned.
func (m *Manager) ShowSelection(xMin, xMax float64) bool {
	starting, ok1 := m.locator.Locate(xMin, 0)
	ending, ok2 := m.locator.Locate(xMax, 0)
	if !ok1 || !ok2 {
		logx.Debugf("[subgraph] no data near pixels [%.1f, %.1f]; selection ignored", xMin, xMax)
		return false
	}
	if m.surface != nil {
		// no zoom stack: a new selection replaces the open one
		m.Hide()
	}

	rng := types.NewSelectionRange(starting.Nearest.Point.X, ending.Nearest.Point.X)
	scoped := NewScopedSet()
	Scope(m.host.Series(), rng, scoped)

	surface, err := m.opts.Surfaces(SurfaceSpec{
		Width:    m.opts.Width,
		Height:   m.opts.Height,
		Renderer: types.RendererMulti,
		Range:    rng,
	})
	if err != nil {
		logx.Errorf("[subgraph] create surface: %v", err)
		return false
	}
	if err := surface.Render(scoped.Snapshot()); err != nil {
		logx.Errorf("[subgraph] render surface: %v", err)
		surface.Clear()
		return false
	}
	m.rng = rng
	m.scoped = scoped
	m.surface = surface
	m.opts.View.SetParentVisible(false)
	m.opts.View.SetDismissVisible(true)
	logx.Infof("[subgraph] overlay opened for [%g, %g] (%d series, %d points)", rng.StartX, rng.EndX, scoped.Len(), scoped.Points())
	return true
}

// Hide dismisses the overlay and shows the parent chart again. Any drag in progress is dropped too.
func (m *Manager) Hide() {
	m.ctrl.Reset()
	if m.surface != nil {
		m.surface.Clear()
		logx.Debugf("[subgraph] overlay dismissed")
	}
	m.surface = nil
	m.scoped = nil
	m.opts.View.SetParentVisible(true)
	m.opts.View.SetDismissVisible(false)
}

func (m *Manager) handleUpdate() {
	if m.surface == nil {
		return
	}
	Scope(m.host.Series(), m.rng, m.scoped)
	if err := m.surface.Render(m.scoped.Snapshot()); err != nil {
		logx.Warnf("[subgraph] repaint after update: %v", err)
	}
}
