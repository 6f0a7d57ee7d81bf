package plot

import (
	"math"
	"testing"

	"github.com/iafilius/ChartDrilldown/src/subgraph"
	"github.com/iafilius/ChartDrilldown/src/types"
)

func linear(name string, from, to int, y float64) *types.Series {
	s := &types.Series{Name: name, Renderer: types.RendererLine}
	for x := from; x <= to; x++ {
		s.Data = append(s.Data, types.Point{X: float64(x), Y: y})
	}
	return s
}

func TestTransformsRoundTrip(t *testing.T) {
	p := New(800, 400)
	p.SetSeries([]*types.Series{linear("A", 0, 100, 5)})
	b := p.PlotBox()
	if got := p.XToPixel(0); got != float64(b.Left) {
		t.Fatalf("x=0 should map to left edge %d, got %v", b.Left, got)
	}
	if got := p.XToPixel(100); got != float64(b.Right) {
		t.Fatalf("x=100 should map to right edge %d, got %v", b.Right, got)
	}
	for _, x := range []float64{0, 12.5, 50, 99} {
		back := p.PixelToDomainX(p.XToPixel(x))
		if math.Abs(back-x) > 1e-9 {
			t.Fatalf("round trip %v -> %v", x, back)
		}
	}
	if p.YToPixel(0) != float64(b.Bottom) {
		t.Fatalf("y=0 must sit on the bottom edge")
	}
	if !(p.YToPixel(5) < p.YToPixel(1)) {
		t.Fatalf("larger y must be higher on screen")
	}
}

func TestLayout_StacksAreaSeries(t *testing.T) {
	a := linear("A", 0, 2, 3)
	a.Renderer = types.RendererArea
	b := linear("B", 0, 2, 4)
	b.Renderer = types.RendererArea
	c := linear("C", 0, 2, 100)
	p := New(400, 300)
	p.SetSeries([]*types.Series{a, b, c})
	st := p.Stacked()
	if len(st) != 3 {
		t.Fatalf("expected 3 stacked arrays, got %d", len(st))
	}
	if st[0][1].Y0 != 0 || st[1][1].Y0 != 3 {
		t.Fatalf("unexpected baselines: A=%v B=%v", st[0][1].Y0, st[1][1].Y0)
	}
	if st[2][0].Y0 != 0 {
		t.Fatalf("line series must not stack, got y0=%v", st[2][0].Y0)
	}
	if a.Data[1].Y0 != 0 {
		t.Fatalf("stacking must not write into the source series")
	}
	_, _, _, yMax := p.Domain()
	if yMax < 100 {
		t.Fatalf("y domain must cover the tallest series, got %v", yMax)
	}
}

func TestLayout_DisabledSeriesLeaveActive(t *testing.T) {
	p := New(400, 300)
	p.SetSeries([]*types.Series{linear("A", 0, 5, 1), linear("B", 10, 20, 1)})
	if !p.SetDisabled("B", true) {
		t.Fatalf("B should exist")
	}
	p.Update()
	if got := p.Active(); len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("active = %v", got)
	}
	xMin, xMax, _, _ := p.Domain()
	if xMin != 0 || xMax != 5 {
		t.Fatalf("x domain must ignore disabled series: [%v,%v]", xMin, xMax)
	}
	if p.SetDisabled("missing", true) {
		t.Fatalf("unknown series must report false")
	}
}

func TestLayout_EmptyAndSinglePointDomains(t *testing.T) {
	p := New(400, 300)
	xMin, xMax, yMin, yMax := p.Domain()
	if !(xMax > xMin) || !(yMax > yMin) {
		t.Fatalf("empty plot needs a non-degenerate domain: x[%v,%v] y[%v,%v]", xMin, xMax, yMin, yMax)
	}
	p.SetSeries([]*types.Series{{Name: "one", Data: []types.Point{{X: 7, Y: 2}}}})
	xMin, xMax, _, _ = p.Domain()
	if !(xMin < 7 && xMax > 7) {
		t.Fatalf("single point must be widened: [%v,%v]", xMin, xMax)
	}
}

func TestAppend_DropsNonIncreasingAndCreatesSeries(t *testing.T) {
	p := New(400, 300)
	p.SetSeries([]*types.Series{linear("A", 0, 3, 1)})
	if n := p.Append("A", types.Point{X: 3}, types.Point{X: 2}, types.Point{X: 4}); n != 1 {
		t.Fatalf("expected 1 appended point, got %d", n)
	}
	if n := p.Append("B", types.Point{X: 1}, types.Point{X: 2}); n != 2 {
		t.Fatalf("expected new series with 2 points, got %d", n)
	}
	p.Update()
	if len(p.Series()) != 2 || len(p.Active()) != 2 {
		t.Fatalf("expected 2 series after append")
	}
}

func TestUpdate_FiresCallbacksInOrder(t *testing.T) {
	p := New(400, 300)
	var order []int
	p.OnUpdate(func() { order = append(order, 1) })
	p.OnUpdate(nil)
	p.OnUpdate(func() { order = append(order, 2) })
	p.Update()
	p.Update()
	if len(order) != 4 || order[0] != 1 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("callbacks fired as %v", order)
	}
}

func TestRender_ProducesImageOfPlotSize(t *testing.T) {
	a := linear("A", 0, 50, 3)
	b := linear("B", 0, 50, 2)
	b.Renderer = types.RendererArea
	c := linear("C", 0, 50, 1)
	c.Renderer = types.RendererBar
	d := linear("D", 0, 50, 4)
	d.Renderer = types.RendererScatter
	p := New(640, 320)
	p.Title = "test"
	p.SetSeries([]*types.Series{a, b, c, d})
	img, err := p.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 320 {
		t.Fatalf("unexpected image size %v", img.Bounds())
	}
}

func TestLocatorOnPlot(t *testing.T) {
	p := New(1000, 400)
	p.SetSeries([]*types.Series{linear("A", 0, 100, 1)})
	loc := subgraph.NewLocator(p, p)
	res, ok := loc.Locate(p.XToPixel(37.4), 0)
	if !ok || res.Nearest.Point.X != 37 {
		t.Fatalf("expected x=37, got %+v ok=%v", res.Nearest.Point, ok)
	}
}

func TestSeriesColor(t *testing.T) {
	c := SeriesColor("#ff0000", 0)
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Fatalf("hex color not parsed: %+v", c)
	}
	fallback := SeriesColor("not-a-color", 1)
	if fallback.A == 0 {
		t.Fatalf("fallback color must be opaque: %+v", fallback)
	}
}
