package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ChartDrilldown/cmd/drillviewer/uihelpers"
	"github.com/iafilius/ChartDrilldown/src/plot"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
)

// hoverOverlay draws a crosshair on the sub-graph image and labels the nearest data point.
type hoverOverlay struct {
	widget.BaseWidget
	img      *canvas.Image
	plot     *plot.Plot
	locator  *subgraph.Locator
	timeAxis bool
	mouse    fyne.Position
	hovering bool
}

func newHoverOverlay(img *canvas.Image, timeAxis bool) *hoverOverlay {
	h := &hoverOverlay{img: img, timeAxis: timeAxis}
	h.ExtendBaseWidget(h)
	return h
}

// bind points the overlay at the plot behind the image; nil unbinds.
func (h *hoverOverlay) bind(p *plot.Plot) {
	h.plot = p
	h.locator = nil
	if p != nil {
		h.locator = subgraph.NewLocator(p, p)
	}
	h.Refresh()
}

// lookup maps an overlay position to the nearest point and returns the label plus the point's position
// in overlay coordinates.
func (h *hoverOverlay) lookup(pos fyne.Position, size fyne.Size) (string, fyne.Position, bool) {
	if h.locator == nil || h.img == nil || h.img.Image == nil {
		return "", fyne.Position{}, false
	}
	b := h.img.Image.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	ix, iy, inside := uihelpers.ViewToImage(pos.X, pos.Y, imgW, imgH, size.Width, size.Height)
	if !inside {
		return "", fyne.Position{}, false
	}
	res, ok := h.locator.Locate(float64(ix), float64(iy))
	if !ok {
		return "", fyne.Position{}, false
	}
	pt := res.Nearest.Point
	xLabel := plot.FormatTick(pt.X)
	if h.timeAxis {
		xLabel = plot.FormatTimeTick(pt.X)
	}
	label := fmt.Sprintf("%s\nx: %s\ny: %s", res.Nearest.Series.Name, xLabel, plot.FormatTick(pt.Y))
	px, py := uihelpers.ImageToView(float32(h.plot.XToPixel(pt.X)), float32(h.plot.YToPixel(pt.Y+pt.Y0)), imgW, imgH, size.Width, size.Height)
	return label, fyne.NewPos(px, py), true
}

func (h *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	lineV := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineV.StrokeWidth = 1.0
	dot := canvas.NewCircle(color.RGBA{R: 240, G: 240, B: 240, A: 220})
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	objs := []fyne.CanvasObject{bg, lineV, dot, labelBG, label}
	return &hoverRenderer{h: h, bg: bg, lineV: lineV, dot: dot, labelBG: labelBG, label: label, objs: objs}
}

type hoverRenderer struct {
	h       *hoverOverlay
	bg      *canvas.Rectangle
	lineV   *canvas.Line
	dot     *canvas.Circle
	labelBG *canvas.Rectangle
	label   *widget.Label
	objs    []fyne.CanvasObject
}

func (r *hoverRenderer) hide() {
	r.lineV.Position1 = fyne.NewPos(-10, -10)
	r.lineV.Position2 = fyne.NewPos(-10, -10)
	r.dot.Move(fyne.NewPos(-10, -10))
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *hoverRenderer) Destroy() {}
func (r *hoverRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	if !r.h.hovering {
		r.hide()
		return
	}
	text, at, ok := r.h.lookup(r.h.mouse, size)
	if !ok {
		r.hide()
		return
	}
	// the vertical line snaps to the point, the label follows it
	r.lineV.Position1 = fyne.NewPos(at.X, 0)
	r.lineV.Position2 = fyne.NewPos(at.X, size.Height)
	r.dot.Resize(fyne.NewSize(8, 8))
	r.dot.Move(fyne.NewPos(at.X-4, at.Y-4))
	if r.label.Text != text {
		r.label.SetText(text)
	}
	pad := float32(4)
	ts := r.label.MinSize()
	bgW, bgH := ts.Width+2*pad, ts.Height+2*pad
	tx, ty := at.X+10, at.Y+10
	if tx+bgW > size.Width {
		tx = at.X - 10 - bgW
	}
	if ty+bgH > size.Height {
		ty = size.Height - bgH
	}
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Resize(ts)
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}
func (r *hoverRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *hoverRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *hoverRenderer) Refresh() {
	r.Layout(r.h.Size())
	r.lineV.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.bg.Refresh()
	r.lineV.Refresh()
	r.dot.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

func (h *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) {
	h.hovering = true
	h.mouse = ev.Position
	h.Refresh()
}
func (h *hoverOverlay) MouseIn(ev *desktop.MouseEvent) {
	h.hovering = true
	h.mouse = ev.Position
	h.Refresh()
}
func (h *hoverOverlay) MouseOut() { h.hovering = false; h.Refresh() }

var _ desktop.Hoverable = (*hoverOverlay)(nil)
