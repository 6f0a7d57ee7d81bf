package subgraph

import (
	"math"

	"github.com/iafilius/ChartDrilldown/src/logx"
)

// DragState is the per-gesture state. A new one is used for every gesture.
type DragState struct {
	MouseDown bool
	StartX    float64 // chart-local pixels, valid when HasStart
	HasStart  bool
	Box       Box
}

// RangeHandler receives the normalized pixel bounds of a finished drag.
type RangeHandler func(xMin, xMax float64)

// Controller turns pointer events on the parent chart into horizontal range selections.
// States: Idle -> Dragging (pointer down) -> Idle (pointer up).
type Controller struct {
	geom     Geometry
	boxes    BoxLayer
	onSelect RangeHandler
	state    DragState
}

// NewController builds a controller. boxes may be nil when no visual feedback is wanted.
func NewController(geom Geometry, boxes BoxLayer, onSelect RangeHandler) *Controller {
	return &Controller{geom: geom, boxes: boxes, onSelect: onSelect}
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool { return c.state.MouseDown }

// State returns a copy of the current drag state.
func (c *Controller) State() DragState { return c.state }

func (c *Controller) local(x, y float64) float64 {
	if c.geom == nil {
		return x
	}
	lx, _ := c.geom.ToLocal(x, y)
	return lx
}

// PointerDown starts a gesture.
func (c *Controller) PointerDown(x, y float64) {
	if c.state.MouseDown {
		// a second press without release (e.g. release happened outside the element): start over
		c.Reset()
	}
	c.state.MouseDown = true
}

// PointerMove updates the selection box while dragging; ignored otherwise.
func (c *Controller) PointerMove(x, y float64) {
	if !c.state.MouseDown {
		return
	}
	pointX := c.local(x, y)
	if !c.state.HasStart {
		c.state.StartX = pointX
		c.state.HasStart = true
	}
	if c.state.Box == nil && c.boxes != nil {
		h := 0.0
		if c.geom != nil {
			h = c.geom.Height()
		}
		c.state.Box = c.boxes.NewBox(c.state.StartX, 0, 0, h)
	}
	if c.state.Box == nil {
		return
	}
	diff := pointX - c.state.StartX
	if diff < 0 {
		// dragging right to left: anchor on the pointer
		c.state.Box.SetX(pointX)
		c.state.Box.SetWidth(math.Abs(diff))
		return
	}
	c.state.Box.SetX(c.state.StartX)
	c.state.Box.SetWidth(diff)
}

// PointerUp ends the gesture and hands the normalized range to the handler. A release without a
// preceding press is ignored.
func (c *Controller) PointerUp(x, y float64) {
	if !c.state.MouseDown {
		return
	}
	if c.state.Box != nil {
		c.state.Box.Remove()
	}
	endX := c.local(x, y)
	startX := endX
	if c.state.HasStart {
		startX = c.state.StartX
	}
	c.state = DragState{}

	xMin, xMax := startX, endX
	if endX < startX {
		xMin, xMax = endX, startX
	}
	logx.Debugf("[subgraph] drag released: pixels [%.1f, %.1f]", xMin, xMax)
	if c.onSelect != nil {
		c.onSelect(xMin, xMax)
	}
}

// Reset drops any gesture in progress, removing its box, without selecting anything.
func (c *Controller) Reset() {
	if c.state.Box != nil {
		c.state.Box.Remove()
	}
	c.state = DragState{}
}
