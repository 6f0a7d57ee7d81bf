package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/iafilius/ChartDrilldown/src/config"
	"github.com/iafilius/ChartDrilldown/src/plot"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
	"github.com/iafilius/ChartDrilldown/src/types"
)

func writeSeriesFile(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(`{"meta":{"series":"A","color":"#1f77b4","renderer":"area"}}` + "\n")
	for x := 0; x <= n; x++ {
		fmt.Fprintf(&sb, `{"series":"A","x":%d,"y":%d}`+"\n", x, x%7)
	}
	path := filepath.Join(t.TempDir(), "series.jsonl")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestRunScreenshotsMode_WritesParentAndSubgraph(t *testing.T) {
	cfg := config.Default()
	cfg.File = writeSeriesFile(t, 100)
	cfg.SubWidth, cfg.SubHeight = 640, 480
	out := filepath.Join(t.TempDir(), "shots")
	if err := RunScreenshotsMode(cfg, out, "20:60"); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	parent := decodePNG(t, filepath.Join(out, "parent.png"))
	if b := parent.Bounds(); b.Dx() != cfg.ParentWidth || b.Dy() != cfg.ParentHeight {
		t.Fatalf("parent size %v", b)
	}
	sub := decodePNG(t, filepath.Join(out, "subgraph.png"))
	if b := sub.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("sub-graph size %v", b)
	}
}

func TestRunScreenshotsMode_Errors(t *testing.T) {
	cfg := config.Default()
	if err := RunScreenshotsMode(cfg, t.TempDir(), ""); err == nil {
		t.Fatalf("missing file must fail")
	}
	cfg.File = writeSeriesFile(t, 10)
	if err := RunScreenshotsMode(cfg, t.TempDir(), "nonsense"); err == nil {
		t.Fatalf("bad selection must fail")
	}
}

func TestParseSelection(t *testing.T) {
	cases := []struct {
		in      string
		a, b    float64
		wantErr bool
	}{
		{"", 30, 60, false},
		{"20:60", 20, 60, false},
		{" 60 : 20 ", 60, 20, false},
		{"1.5:2.5", 1.5, 2.5, false},
		{"20", 0, 0, true},
		{"x:2", 0, 0, true},
		{"1:y", 0, 0, true},
	}
	for _, c := range cases {
		a, b, err := parseSelection(c.in, 0, 90)
		if (err != nil) != c.wantErr {
			t.Fatalf("%q: err=%v", c.in, err)
		}
		if err == nil && (a != c.a || b != c.b) {
			t.Fatalf("%q: got %v:%v want %v:%v", c.in, a, b, c.a, c.b)
		}
	}
}

func TestLooksLikeUnixTime(t *testing.T) {
	ts := []*types.Series{{Name: "A", Data: []types.Point{{X: 1.7e9}, {X: 1.7e9 + 60}}}}
	if !looksLikeUnixTime(ts) {
		t.Fatalf("epoch seconds not detected")
	}
	plain := []*types.Series{{Name: "A", Data: []types.Point{{X: 0}, {X: 10}}}}
	if looksLikeUnixTime(plain) || looksLikeUnixTime(nil) {
		t.Fatalf("plain numbers must not be treated as time")
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("/a/b.jsonl", 60); got != "/a/b.jsonl" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/very/long/directory/name/that/keeps/going/and/going/series.jsonl"
	got := truncatePath(long, 40)
	if !strings.HasSuffix(got, "series.jsonl") || len(got) > 40 {
		t.Fatalf("truncated path %q", got)
	}
}

// The overlay is the window's pointer port: a mouse drag across it must open the sub-graph for the
// dragged range and the box must be gone afterwards.
func TestSelectionOverlay_DragOpensSubgraph(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	parent := plot.New(1000, 400)
	var data []types.Point
	for x := 0; x <= 100; x++ {
		data = append(data, types.Point{X: float64(x), Y: 1})
	}
	parent.SetSeries([]*types.Series{{Name: "A", Data: data}})
	img, err := parent.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	parentImg := canvas.NewImageFromImage(img)
	parentImg.FillMode = canvas.ImageFillContain
	overlay := newSelectionOverlay(parentImg)
	// twice the image size: view coordinates are image pixels scaled by 2
	overlay.Resize(fyne.NewSize(2000, 800))

	view := &headlessView{parentVisible: true}
	m, err := subgraph.New(parent, subgraph.Options{
		Geometry: overlay,
		Boxes:    overlay,
		View:     view,
		Surfaces: plot.NewImageSurfaceFactory(plot.SurfaceOptions{}),
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	overlay.bind(m.Controller())

	at := func(x float64) fyne.Position { return fyne.NewPos(float32(parent.XToPixel(x)*2), 400) }
	overlay.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: at(20)}, Button: desktop.MouseButtonPrimary})
	overlay.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: at(40)}})
	if len(overlay.boxes) != 1 {
		t.Fatalf("expected a selection box while dragging, got %d", len(overlay.boxes))
	}
	overlay.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: at(60)}})
	overlay.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: at(60)}, Button: desktop.MouseButtonPrimary})
	overlay.DragEnd()

	rng, ok := m.Range()
	if !ok || rng.StartX != 20 || rng.EndX != 60 {
		t.Fatalf("expected range [20,60], got %+v ok=%v", rng, ok)
	}
	if m.Scoped().Points() != 41 {
		t.Fatalf("expected 41 scoped points, got %d", m.Scoped().Points())
	}
	if view.parentVisible || !view.dismissVisible {
		t.Fatalf("view not switched: %+v", *view)
	}
	if len(overlay.boxes) != 0 {
		t.Fatalf("box must be removed on release")
	}
}

func TestSelectionOverlay_IgnoresSecondaryButton(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	ctrl := subgraph.NewController(nil, nil, nil)
	overlay := newSelectionOverlay(canvas.NewImageFromImage(plot.Blank(100, 50)))
	overlay.bind(ctrl)
	overlay.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonSecondary})
	if ctrl.Dragging() {
		t.Fatalf("secondary button must not start a drag")
	}
}
