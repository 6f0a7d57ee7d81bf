package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ChartDrilldown/cmd/drillviewer/uihelpers"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
)

// selectionOverlay sits on top of the parent chart image. It feeds pointer events to the drill-down
// controller and draws the selection box. Positions handed to the controller are overlay coordinates;
// ToLocal maps them to chart image pixels, which are the parent plot's pixels.
type selectionOverlay struct {
	widget.BaseWidget
	img   *canvas.Image
	ctrl  *subgraph.Controller
	layer *fyne.Container
	boxes []*selectionBox
	last  fyne.Position
}

func newSelectionOverlay(img *canvas.Image) *selectionOverlay {
	o := &selectionOverlay{img: img, layer: container.NewWithoutLayout()}
	o.ExtendBaseWidget(o)
	return o
}

// bind attaches the controller once the manager exists.
func (o *selectionOverlay) bind(ctrl *subgraph.Controller) { o.ctrl = ctrl }

func (o *selectionOverlay) imageSize() (float32, float32) {
	if o.img != nil && o.img.Image != nil {
		b := o.img.Image.Bounds()
		return float32(b.Dx()), float32(b.Dy())
	}
	sz := o.Size()
	return sz.Width, sz.Height
}

// ToLocal implements subgraph.Geometry.
func (o *selectionOverlay) ToLocal(x, y float64) (float64, float64) {
	imgW, imgH := o.imageSize()
	sz := o.Size()
	ix, iy, _ := uihelpers.ViewToImage(float32(x), float32(y), imgW, imgH, sz.Width, sz.Height)
	return float64(ix), float64(iy)
}

// Height implements subgraph.Geometry: the chart height in image pixels.
func (o *selectionOverlay) Height() float64 {
	_, h := o.imageSize()
	return float64(h)
}

// NewBox implements subgraph.BoxLayer. Coordinates are image pixels.
func (o *selectionOverlay) NewBox(x, y, w, h float64) subgraph.Box {
	rect := canvas.NewRectangle(color.NRGBA{R: 120, G: 160, B: 255, A: 70})
	rect.StrokeColor = color.NRGBA{R: 120, G: 160, B: 255, A: 200}
	rect.StrokeWidth = 1
	b := &selectionBox{o: o, rect: rect, x: x, y: y, w: w, h: h}
	o.boxes = append(o.boxes, b)
	o.layer.Add(rect)
	b.place()
	return b
}

func (o *selectionOverlay) removeBox(b *selectionBox) {
	for i, cur := range o.boxes {
		if cur == b {
			o.boxes = append(o.boxes[:i], o.boxes[i+1:]...)
			break
		}
	}
	o.layer.Remove(b.rect)
}

func (o *selectionOverlay) pos(p fyne.Position) (float64, float64) {
	return float64(p.X), float64(p.Y)
}

func (o *selectionOverlay) MouseDown(ev *desktop.MouseEvent) {
	if o.ctrl == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	o.last = ev.Position
	o.ctrl.PointerDown(o.pos(ev.Position))
}

func (o *selectionOverlay) MouseUp(ev *desktop.MouseEvent) {
	if o.ctrl == nil {
		return
	}
	o.last = ev.Position
	o.ctrl.PointerUp(o.pos(ev.Position))
}

func (o *selectionOverlay) Dragged(ev *fyne.DragEvent) {
	if o.ctrl == nil {
		return
	}
	if !o.ctrl.Dragging() {
		// touch input: no MouseDown precedes the first drag event
		start := ev.Position.Subtract(fyne.NewPos(ev.Dragged.DX, ev.Dragged.DY))
		o.ctrl.PointerDown(o.pos(start))
		o.ctrl.PointerMove(o.pos(start))
	}
	o.last = ev.Position
	o.ctrl.PointerMove(o.pos(ev.Position))
}

// DragEnd carries no position; release at the last one seen. A MouseUp that already ended the gesture
// makes this a no-op.
func (o *selectionOverlay) DragEnd() {
	if o.ctrl == nil {
		return
	}
	o.ctrl.PointerUp(o.pos(o.last))
}

func (o *selectionOverlay) MouseIn(*desktop.MouseEvent) {}

func (o *selectionOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if o.ctrl == nil {
		return
	}
	o.last = ev.Position
	o.ctrl.PointerMove(o.pos(ev.Position))
}

func (o *selectionOverlay) MouseOut() {}

func (o *selectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background so the whole area receives pointer events
	bg := canvas.NewRectangle(color.RGBA{A: 0})
	return &selectionRenderer{o: o, bg: bg}
}

type selectionRenderer struct {
	o  *selectionOverlay
	bg *canvas.Rectangle
}

func (r *selectionRenderer) Destroy() {}
func (r *selectionRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.o.layer.Resize(size)
	for _, b := range r.o.boxes {
		b.place()
	}
}
func (r *selectionRenderer) MinSize() fyne.Size { return fyne.NewSize(10, 10) }
func (r *selectionRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.o.layer}
}
func (r *selectionRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.bg.Refresh()
	r.o.layer.Refresh()
}

// selectionBox keeps its geometry in image pixels and is re-placed whenever the view is laid out.
type selectionBox struct {
	o          *selectionOverlay
	rect       *canvas.Rectangle
	x, y, w, h float64
}

func (b *selectionBox) SetX(x float64)     { b.x = x; b.place() }
func (b *selectionBox) SetWidth(w float64) { b.w = w; b.place() }
func (b *selectionBox) Remove()            { b.o.removeBox(b) }

func (b *selectionBox) place() {
	imgW, imgH := b.o.imageSize()
	sz := b.o.Size()
	x0, y0 := uihelpers.ImageToView(float32(b.x), float32(b.y), imgW, imgH, sz.Width, sz.Height)
	x1, y1 := uihelpers.ImageToView(float32(b.x+b.w), float32(b.y+b.h), imgW, imgH, sz.Width, sz.Height)
	b.rect.Move(fyne.NewPos(x0, y0))
	b.rect.Resize(fyne.NewSize(x1-x0, y1-y0))
	b.rect.Refresh()
}

var (
	_ desktop.Mouseable = (*selectionOverlay)(nil)
	_ desktop.Hoverable = (*selectionOverlay)(nil)
	_ fyne.Draggable    = (*selectionOverlay)(nil)
	_ subgraph.Geometry = (*selectionOverlay)(nil)
	_ subgraph.BoxLayer = (*selectionOverlay)(nil)
)
