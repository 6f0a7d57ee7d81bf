// Package subgraph implements drill-down selection on a time-series chart: a horizontal drag over the parent
// chart opens a secondary chart scoped to the dragged range, kept in sync with the parent until dismissed.
//
// The chart engine, the element geometry and the visibility toggles are collaborators passed in as
// interfaces, so everything here runs against fakes as well as against src/plot and the Fyne viewer.
// None of the types in this package are safe for concurrent use; drive them from the UI goroutine.
package subgraph

import (
	"errors"

	"github.com/iafilius/ChartDrilldown/src/types"
)

var (
	ErrNoHost    = errors.New("subgraph: parent chart must be defined")
	ErrNoSurface = errors.New("subgraph: surface factory must be defined")
	ErrNoView    = errors.New("subgraph: view must be defined")
)

// SeriesSource exposes the parent chart's series.
type SeriesSource interface {
	// Series returns all series in chart order.
	Series() []*types.Series
	// Active returns the non-disabled series in stable order.
	Active() []*types.Series
	// Stacked returns the pre-stacked point arrays, aligned 1:1 with Active.
	Stacked() [][]types.Point
}

// Transform converts between domain values and chart pixels.
type Transform interface {
	XToPixel(x float64) float64
	YToPixel(y float64) float64
	PixelToDomainX(px float64) float64
}

// Notifier registers callbacks fired after the chart's data changed.
type Notifier interface {
	OnUpdate(fn func())
}

// Host is the parent chart.
type Host interface {
	SeriesSource
	Transform
	Notifier
}

// Geometry converts input coordinates to chart-local pixels.
type Geometry interface {
	ToLocal(x, y float64) (float64, float64)
	Height() float64
}

// Box is the transient selection rectangle drawn during a drag.
type Box interface {
	SetX(x float64)
	SetWidth(w float64)
	Remove()
}

// BoxLayer creates selection rectangles on top of the parent chart.
type BoxLayer interface {
	NewBox(x, y, w, h float64) Box
}

// View toggles the parent chart and the dismissal control.
type View interface {
	SetParentVisible(visible bool)
	SetDismissVisible(visible bool)
}

// Surface is a secondary chart. Render receives a fresh copy of the scoped series on every call.
type Surface interface {
	Render(series []types.Series) error
	Clear()
}

// SurfaceSpec describes the secondary chart to build.
type SurfaceSpec struct {
	Width    int
	Height   int
	Renderer types.RendererKind
	Range    types.SelectionRange
}

// SurfaceFactory builds a secondary chart.
type SurfaceFactory func(spec SurfaceSpec) (Surface, error)
