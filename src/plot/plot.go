// Package plot is a small time-series chart: it stores series, lays them out into a padded plot box,
// converts between domain and pixel coordinates and renders to PNG with go-chart's renderer.
//
// A Plot satisfies subgraph.Host, so it can act as the parent chart of a drill-down, and ImageSurface
// wraps a second Plot as the drill-down's secondary surface.
package plot

import (
	"math"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/types"
)

// DefaultPadding leaves room for the title, the y tick labels and the x tick labels.
var DefaultPadding = chart.Box{Top: 28, Left: 56, Right: 16, Bottom: 34}

// Plot is a chart host. Mutations and reads are guarded by a mutex; update callbacks run on the goroutine
// that called Update, outside the lock.
type Plot struct {
	Title    string
	TimeAxis bool // X is unix seconds
	Padding  chart.Box

	mu      sync.RWMutex
	width   int
	height  int
	series  []*types.Series
	active  []*types.Series
	stacked [][]types.Point
	xMin    float64
	xMax    float64
	yMin    float64
	yMax    float64
	updates []func()
}

// New creates an empty plot of the given pixel size.
func New(width, height int) *Plot {
	p := &Plot{width: width, height: height, Padding: DefaultPadding}
	p.layout()
	return p
}

// Size returns the pixel size.
func (p *Plot) Size() (int, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.width, p.height
}

// Resize changes the pixel size and re-lays out without firing update callbacks.
func (p *Plot) Resize(width, height int) {
	p.mu.Lock()
	p.width, p.height = width, height
	p.mu.Unlock()
	p.layout()
}

// SetSeries replaces all series. The plot keeps the pointers; callers must not mutate them afterwards
// except through the plot.
func (p *Plot) SetSeries(series []*types.Series) {
	p.mu.Lock()
	p.series = append([]*types.Series(nil), series...)
	p.mu.Unlock()
	p.layout()
}

// SetSeriesValues replaces all series with copies of series.
func (p *Plot) SetSeriesValues(series []types.Series) {
	ptrs := make([]*types.Series, len(series))
	for i := range series {
		s := series[i].Clone()
		ptrs[i] = &s
	}
	p.SetSeries(ptrs)
}

// Append adds points to the named series, creating it when missing. Points that do not increase X are
// dropped. Returns how many points were added. Call Update to publish the change.
func (p *Plot) Append(name string, pts ...types.Point) int {
	p.mu.Lock()
	var target *types.Series
	for _, s := range p.series {
		if s.Name == name {
			target = s
			break
		}
	}
	if target == nil {
		target = &types.Series{Name: name, Renderer: types.RendererLine}
		p.series = append(p.series, target)
	}
	added := 0
	for _, pt := range pts {
		if n := len(target.Data); n > 0 && pt.X <= target.Data[n-1].X {
			logx.Debugf("[plot] %s: dropping non-increasing x=%g", name, pt.X)
			continue
		}
		target.Data = append(target.Data, pt)
		added++
	}
	p.mu.Unlock()
	return added
}

// SetStyle updates a series' color and renderer, creating the series when missing. Empty values keep
// the current setting.
func (p *Plot) SetStyle(name, color string, kind types.RendererKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var target *types.Series
	for _, s := range p.series {
		if s.Name == name {
			target = s
			break
		}
	}
	if target == nil {
		target = &types.Series{Name: name, Renderer: types.RendererLine}
		p.series = append(p.series, target)
	}
	if color != "" {
		target.Color = color
	}
	if kind != "" {
		target.Renderer = kind
	}
}

// SetDisabled toggles a series. Returns false when the series does not exist.
func (p *Plot) SetDisabled(name string, disabled bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.series {
		if s.Name == name {
			s.Disabled = disabled
			return true
		}
	}
	return false
}

// Update recomputes the layout and fires every OnUpdate callback in registration order.
func (p *Plot) Update() {
	p.layout()
	p.mu.RLock()
	fns := append([]func(){}, p.updates...)
	p.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// OnUpdate registers fn to run after every Update.
func (p *Plot) OnUpdate(fn func()) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.updates = append(p.updates, fn)
	p.mu.Unlock()
}

// Series returns all series in chart order.
func (p *Plot) Series() []*types.Series {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*types.Series(nil), p.series...)
}

// Active returns the enabled series as of the last layout.
func (p *Plot) Active() []*types.Series {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*types.Series(nil), p.active...)
}

// Stacked returns the stacked point arrays aligned with Active.
func (p *Plot) Stacked() [][]types.Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([][]types.Point(nil), p.stacked...)
}

// Domain returns the laid out x and y ranges.
func (p *Plot) Domain() (xMin, xMax, yMin, yMax float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.xMin, p.xMax, p.yMin, p.yMax
}

// PlotBox is the pixel rectangle series are drawn into.
func (p *Plot) PlotBox() chart.Box {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.plotBox()
}

func (p *Plot) plotBox() chart.Box {
	b := chart.Box{
		Top:    p.Padding.Top,
		Left:   p.Padding.Left,
		Right:  p.width - p.Padding.Right,
		Bottom: p.height - p.Padding.Bottom,
	}
	if b.Right <= b.Left {
		b.Right = b.Left + 1
	}
	if b.Bottom <= b.Top {
		b.Bottom = b.Top + 1
	}
	return b
}

// XToPixel maps a domain x to a pixel column.
func (p *Plot) XToPixel(x float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b := p.plotBox()
	return float64(b.Left) + (x-p.xMin)/(p.xMax-p.xMin)*float64(b.Right-b.Left)
}

// YToPixel maps a domain y to a pixel row (grows downwards).
func (p *Plot) YToPixel(y float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b := p.plotBox()
	return float64(b.Bottom) - (y-p.yMin)/(p.yMax-p.yMin)*float64(b.Bottom-b.Top)
}

// PixelToDomainX is the inverse of XToPixel.
func (p *Plot) PixelToDomainX(px float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b := p.plotBox()
	return p.xMin + (px-float64(b.Left))/float64(b.Right-b.Left)*(p.xMax-p.xMin)
}

// layout computes active series, stacking baselines and the x/y domains.
func (p *Plot) layout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = p.active[:0]
	p.stacked = p.stacked[:0]
	base := map[float64]float64{}
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := 0.0, math.Inf(-1)
	for _, s := range p.series {
		if s.Disabled {
			continue
		}
		data := make([]types.Point, len(s.Data))
		for i, pt := range s.Data {
			pt.Y0 = 0
			if s.Renderer.Stacks() {
				pt.Y0 = base[pt.X]
				base[pt.X] += pt.Y
			}
			data[i] = pt
			xMin = math.Min(xMin, pt.X)
			xMax = math.Max(xMax, pt.X)
			yMin = math.Min(yMin, pt.Y+pt.Y0)
			yMax = math.Max(yMax, pt.Y+pt.Y0)
		}
		p.active = append(p.active, s)
		p.stacked = append(p.stacked, data)
	}
	if math.IsInf(xMin, 1) {
		xMin, xMax = 0, 1
	}
	if xMax <= xMin {
		xMin, xMax = xMin-0.5, xMax+0.5
	}
	if math.IsInf(yMax, -1) || yMax <= yMin {
		yMax = yMin + 1
	}
	p.xMin, p.xMax = xMin, xMax
	p.yMin, p.yMax = yMin, niceUpper(yMin, yMax, 6)
}
