// Package types holds the series data model shared by the plot host, the feed reader and the drill-down
// sub-graph logic.
package types

// RendererKind names how a series is painted.
type RendererKind string

const (
	RendererLine    RendererKind = "line"
	RendererArea    RendererKind = "area"
	RendererBar     RendererKind = "bar"
	RendererScatter RendererKind = "scatterplot"
	// RendererMulti lets every series pick its own renderer (used for sub-graphs).
	RendererMulti RendererKind = "multi"
)

// Stacks reports whether series of this kind are stacked on the previous stacked series.
func (k RendererKind) Stacks() bool { return k == RendererArea || k == RendererBar }

// ParseRenderer maps a free-form name to a RendererKind, defaulting to line.
func ParseRenderer(s string) RendererKind {
	switch RendererKind(s) {
	case RendererArea, RendererBar, RendererScatter, RendererMulti:
		return RendererKind(s)
	case "scatter":
		return RendererScatter
	default:
		return RendererLine
	}
}

// Point is one sample. X is the domain coordinate (strictly increasing within a series),
// Y0 the stacked baseline offset.
type Point struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Y0 float64 `json:"y0,omitempty"`
}

// Series is a named, ordered sequence of points.
type Series struct {
	Name     string       `json:"name"`
	Color    string       `json:"color,omitempty"`
	Renderer RendererKind `json:"renderer,omitempty"`
	Disabled bool         `json:"disabled,omitempty"`
	Data     []Point      `json:"data"`
}

// Span returns the first and last X of the series; ok is false for an empty series.
func (s *Series) Span() (first, last float64, ok bool) {
	if s == nil || len(s.Data) == 0 {
		return 0, 0, false
	}
	return s.Data[0].X, s.Data[len(s.Data)-1].X, true
}

// Clone returns a copy with its own Data slice.
func (s Series) Clone() Series {
	c := s
	c.Data = append([]Point(nil), s.Data...)
	return c
}

// SelectionRange is an inclusive domain interval with StartX <= EndX.
type SelectionRange struct {
	StartX float64 `json:"start_x"`
	EndX   float64 `json:"end_x"`
}

// NewSelectionRange orders a and b.
func NewSelectionRange(a, b float64) SelectionRange {
	if b < a {
		a, b = b, a
	}
	return SelectionRange{StartX: a, EndX: b}
}

// Contains reports whether x lies in [StartX, EndX].
func (r SelectionRange) Contains(x float64) bool { return x >= r.StartX && x <= r.EndX }

// Span is EndX - StartX.
func (r SelectionRange) Span() float64 { return r.EndX - r.StartX }
