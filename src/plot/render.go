package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/ChartDrilldown/src/types"
)

var (
	backgroundColor = drawing.Color{R: 18, G: 18, B: 18, A: 255}
	gridColor       = drawing.Color{R: 60, G: 60, B: 60, A: 255}
	axisColor       = drawing.Color{R: 160, G: 160, B: 160, A: 255}
	textColor       = drawing.Color{R: 220, G: 220, B: 220, A: 255}
)

// SeriesColor resolves a series' "#rrggbb" color, falling back to go-chart's default palette by index.
func SeriesColor(hex string, index int) drawing.Color {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 6 || len(h) == 3 {
		valid := true
		for _, r := range h {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				valid = false
				break
			}
		}
		if valid {
			return drawing.ColorFromHex(h)
		}
	}
	return chart.GetDefaultColor(index)
}

// Render draws the plot and decodes it into an image.
func (p *Plot) Render() (image.Image, error) {
	var buf bytes.Buffer
	if err := p.RenderPNG(&buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode plot png: %w", err)
	}
	return img, nil
}

// RenderPNG draws the plot as PNG into w.
func (p *Plot) RenderPNG(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, err := chart.PNG(p.width, p.height)
	if err != nil {
		return fmt.Errorf("png renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("default font: %w", err)
	}
	r.SetFont(font)

	fillRect(r, chart.Box{Top: 0, Left: 0, Right: p.width, Bottom: p.height}, backgroundColor)
	b := p.plotBox()
	p.drawAxes(r, b)
	for i, s := range p.active {
		p.drawSeries(r, b, s, p.stacked[i], SeriesColor(s.Color, i))
	}
	p.drawLegend(r, b)
	if p.Title != "" {
		r.SetFontColor(textColor)
		r.SetFontSize(11)
		r.Text(p.Title, b.Left, p.Padding.Top-10)
	}
	return r.Save(w)
}

func fillRect(r chart.Renderer, b chart.Box, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.Fill()
}

func line(r chart.Renderer, x0, y0, x1, y1 int, style chart.Style) {
	style.WriteDrawingOptionsToRenderer(r)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}

// px and py use the unlocked transforms; callers hold the read lock.
func (p *Plot) px(x float64, b chart.Box) int {
	return int(math.Round(float64(b.Left) + (x-p.xMin)/(p.xMax-p.xMin)*float64(b.Right-b.Left)))
}

func (p *Plot) py(y float64, b chart.Box) int {
	return int(math.Round(float64(b.Bottom) - (y-p.yMin)/(p.yMax-p.yMin)*float64(b.Bottom-b.Top)))
}

func (p *Plot) drawAxes(r chart.Renderer, b chart.Box) {
	grid := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	axis := chart.Style{StrokeColor: axisColor, StrokeWidth: 1}
	r.SetFontSize(9)
	r.SetFontColor(textColor)

	for _, t := range NiceTicks(p.yMin, p.yMax, 6) {
		if t.Value < p.yMin || t.Value > p.yMax {
			continue
		}
		y := p.py(t.Value, b)
		line(r, b.Left, y, b.Right, y, grid)
		tb := r.MeasureText(t.Label)
		r.Text(t.Label, b.Left-tb.Width()-6, y+tb.Height()/2)
	}

	var xTicks []chart.Tick
	if p.TimeAxis {
		xTicks = TimeTicks(p.xMin, p.xMax)
	} else {
		xTicks = NiceTicks(p.xMin, p.xMax, 8)
	}
	for _, t := range xTicks {
		if t.Value < p.xMin || t.Value > p.xMax {
			continue
		}
		x := p.px(t.Value, b)
		line(r, x, b.Bottom, x, b.Bottom+4, axis)
		tb := r.MeasureText(t.Label)
		r.Text(t.Label, x-tb.Width()/2, b.Bottom+8+tb.Height())
	}
	line(r, b.Left, b.Bottom, b.Right, b.Bottom, axis)
	line(r, b.Left, b.Top, b.Left, b.Bottom, axis)
}

func (p *Plot) drawSeries(r chart.Renderer, b chart.Box, s *types.Series, data []types.Point, col drawing.Color) {
	if len(data) == 0 {
		return
	}
	stroke := chart.Style{StrokeColor: col, StrokeWidth: 2}
	switch s.Renderer {
	case types.RendererArea:
		fill := chart.Style{FillColor: col.WithAlpha(96), StrokeWidth: 0}
		fill.WriteDrawingOptionsToRenderer(r)
		r.MoveTo(p.px(data[0].X, b), p.py(data[0].Y0, b))
		for _, pt := range data {
			r.LineTo(p.px(pt.X, b), p.py(pt.Y+pt.Y0, b))
		}
		for i := len(data) - 1; i >= 0; i-- {
			r.LineTo(p.px(data[i].X, b), p.py(data[i].Y0, b))
		}
		r.Close()
		r.Fill()
		p.polyline(r, b, data, stroke)
	case types.RendererBar:
		w := (b.Right - b.Left) / (2 * len(data))
		if w < 1 {
			w = 1
		}
		for _, pt := range data {
			x := p.px(pt.X, b)
			fillRect(r, chart.Box{Left: x - w/2, Right: x + w/2 + 1, Top: p.py(pt.Y+pt.Y0, b), Bottom: p.py(pt.Y0, b)}, col)
		}
	case types.RendererScatter:
		dot := chart.Style{StrokeColor: col, FillColor: col, StrokeWidth: 1}
		for _, pt := range data {
			dot.WriteDrawingOptionsToRenderer(r)
			r.Circle(3, p.px(pt.X, b), p.py(pt.Y+pt.Y0, b))
			r.FillStroke()
		}
	default:
		p.polyline(r, b, data, stroke)
		if len(data) == 1 {
			dot := chart.Style{StrokeColor: col, FillColor: col, StrokeWidth: 1}
			dot.WriteDrawingOptionsToRenderer(r)
			r.Circle(3, p.px(data[0].X, b), p.py(data[0].Y+data[0].Y0, b))
			r.FillStroke()
		}
	}
}

func (p *Plot) polyline(r chart.Renderer, b chart.Box, data []types.Point, style chart.Style) {
	style.WriteDrawingOptionsToRenderer(r)
	r.MoveTo(p.px(data[0].X, b), p.py(data[0].Y+data[0].Y0, b))
	for _, pt := range data[1:] {
		r.LineTo(p.px(pt.X, b), p.py(pt.Y+pt.Y0, b))
	}
	r.Stroke()
}

// drawLegend lists active series names along the top-right edge.
func (p *Plot) drawLegend(r chart.Renderer, b chart.Box) {
	r.SetFontSize(9)
	x := b.Right
	for i := len(p.active) - 1; i >= 0; i-- {
		s := p.active[i]
		tb := r.MeasureText(s.Name)
		x -= tb.Width() + 18
		fillRect(r, chart.Box{Left: x, Right: x + 8, Top: p.Padding.Top - 18, Bottom: p.Padding.Top - 10}, SeriesColor(s.Color, i))
		r.SetFontColor(textColor)
		r.Text(s.Name, x+12, p.Padding.Top-10)
	}
}

// Blank returns a dark placeholder image.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBA{R: 18, G: 18, B: 18, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
