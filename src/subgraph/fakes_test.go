package subgraph

import (
	"github.com/iafilius/ChartDrilldown/src/types"
)

// fakeChart is a parent chart with a linear x transform (px = x*scale + offset) and y flipped around height.
type fakeChart struct {
	series  []*types.Series
	scale   float64
	offset  float64
	height  float64
	updates []func()
}

func newFakeChart(series ...*types.Series) *fakeChart {
	return &fakeChart{series: series, scale: 10, offset: 5, height: 200}
}

func (f *fakeChart) Series() []*types.Series { return f.series }

func (f *fakeChart) Active() []*types.Series {
	var out []*types.Series
	for _, s := range f.series {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeChart) Stacked() [][]types.Point {
	var out [][]types.Point
	for _, s := range f.Active() {
		out = append(out, append([]types.Point(nil), s.Data...))
	}
	return out
}

func (f *fakeChart) XToPixel(x float64) float64        { return x*f.scale + f.offset }
func (f *fakeChart) YToPixel(y float64) float64        { return f.height - y }
func (f *fakeChart) PixelToDomainX(px float64) float64 { return (px - f.offset) / f.scale }
func (f *fakeChart) OnUpdate(fn func())                { f.updates = append(f.updates, fn) }

func (f *fakeChart) fire() {
	for _, fn := range f.updates {
		fn()
	}
}

func (f *fakeChart) appendPoint(name string, p types.Point) {
	for _, s := range f.series {
		if s.Name == name {
			s.Data = append(s.Data, p)
		}
	}
	f.fire()
}

func seriesWithX(name string, xs ...float64) *types.Series {
	s := &types.Series{Name: name, Color: "#336699", Renderer: types.RendererLine}
	for _, x := range xs {
		s.Data = append(s.Data, types.Point{X: x, Y: x / 2})
	}
	return s
}

func seriesRange(name string, from, to int) *types.Series {
	s := &types.Series{Name: name, Renderer: types.RendererLine}
	for x := from; x <= to; x++ {
		s.Data = append(s.Data, types.Point{X: float64(x), Y: 1})
	}
	return s
}

// fakeGeometry offsets pointer coordinates by the element's left/top.
type fakeGeometry struct {
	left, top, height float64
}

func (g fakeGeometry) ToLocal(x, y float64) (float64, float64) { return x - g.left, y - g.top }
func (g fakeGeometry) Height() float64                         { return g.height }

type fakeBox struct {
	x, y, w, h float64
	removed    bool
}

func (b *fakeBox) SetX(x float64)     { b.x = x }
func (b *fakeBox) SetWidth(w float64) { b.w = w }
func (b *fakeBox) Remove()            { b.removed = true }

type fakeBoxLayer struct {
	boxes []*fakeBox
}

func (l *fakeBoxLayer) NewBox(x, y, w, h float64) Box {
	b := &fakeBox{x: x, y: y, w: w, h: h}
	l.boxes = append(l.boxes, b)
	return b
}

type fakeView struct {
	parentVisible  bool
	dismissVisible bool
}

func (v *fakeView) SetParentVisible(b bool)  { v.parentVisible = b }
func (v *fakeView) SetDismissVisible(b bool) { v.dismissVisible = b }

type fakeSurface struct {
	spec    SurfaceSpec
	renders int
	last    []types.Series
	cleared bool
	failErr error
}

func (s *fakeSurface) Render(series []types.Series) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.renders++
	s.last = series
	return nil
}

func (s *fakeSurface) Clear() { s.cleared = true; s.last = nil }

type fakeSurfaces struct {
	created []*fakeSurface
	err     error
}

func (f *fakeSurfaces) factory(spec SurfaceSpec) (Surface, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &fakeSurface{spec: spec}
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeSurfaces) last() *fakeSurface {
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}
