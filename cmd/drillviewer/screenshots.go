package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iafilius/ChartDrilldown/src/config"
	"github.com/iafilius/ChartDrilldown/src/feed"
	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/plot"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
)

// headlessView records what the window would show.
type headlessView struct{ parentVisible, dismissVisible bool }

func (v *headlessView) SetParentVisible(b bool)  { v.parentVisible = b }
func (v *headlessView) SetDismissVisible(b bool) { v.dismissVisible = b }

// RunScreenshotsMode renders the parent chart and a drill-down of sel ("a:b" in domain units, empty for
// the middle third) and writes parent.png and subgraph.png under outDir.
// It runs headlessly without creating a UI window.
func RunScreenshotsMode(cfg config.Config, outDir, sel string) error {
	if cfg.File == "" {
		return errors.New("no input file (use -file or set file in the config)")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	series, _, err := feed.Load(cfg.File)
	if err != nil {
		return err
	}
	applyColors(series, cfg.Colors)
	timeAxis := looksLikeUnixTime(series)

	parent := plot.New(cfg.ParentWidth, cfg.ParentHeight)
	parent.Title = cfg.Title
	parent.TimeAxis = timeAxis
	parent.SetSeries(series)

	var surface *plot.ImageSurface
	view := &headlessView{parentVisible: true}
	m, err := subgraph.New(parent, subgraph.Options{
		Width:  cfg.SubWidth,
		Height: cfg.SubHeight,
		View:   view,
		Surfaces: plot.NewImageSurfaceFactory(plot.SurfaceOptions{
			TimeAxis: timeAxis,
			Caption:  true,
			Title:    cfg.Title,
			OnCreate: func(s *plot.ImageSurface) { surface = s },
		}),
	})
	if err != nil {
		return fmt.Errorf("drill-down: %w", err)
	}

	img, err := parent.Render()
	if err != nil {
		return fmt.Errorf("render parent: %w", err)
	}
	if err := writePNG(filepath.Join(outDir, "parent.png"), img); err != nil {
		return err
	}

	xMin, xMax, _, _ := parent.Domain()
	a, b, err := parseSelection(sel, xMin, xMax)
	if err != nil {
		return err
	}
	// drive the same pointer port the window uses
	ctrl := m.Controller()
	y := float64(cfg.ParentHeight) / 2
	ctrl.PointerDown(parent.XToPixel(a), y)
	ctrl.PointerMove(parent.XToPixel(a), y)
	ctrl.PointerMove(parent.XToPixel(b), y)
	ctrl.PointerUp(parent.XToPixel(b), y)
	if !m.Active() || surface == nil || surface.Image() == nil {
		return fmt.Errorf("selection %g:%g produced no sub-graph", a, b)
	}
	rng, _ := m.Range()
	logx.Infof("[screenshots] drilled into [%g, %g]: %d points", rng.StartX, rng.EndX, m.Scoped().Points())
	return writePNG(filepath.Join(outDir, "subgraph.png"), surface.Image())
}

// parseSelection reads "a:b"; empty selects the middle third of [xMin, xMax].
func parseSelection(sel string, xMin, xMax float64) (float64, float64, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		third := (xMax - xMin) / 3
		return xMin + third, xMax - third, nil
	}
	parts := strings.SplitN(sel, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid selection %q: want a:b", sel)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection start %q: %w", parts[0], err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection end %q: %w", parts[1], err)
	}
	return a, b, nil
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
