package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ChartDrilldown/cmd/drillviewer/uihelpers"
	"github.com/iafilius/ChartDrilldown/src/config"
	"github.com/iafilius/ChartDrilldown/src/feed"
	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/plot"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
	"github.com/iafilius/ChartDrilldown/src/types"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config

	filePath string
	follow   bool
	offset   int64
	timeAxis bool

	parent  *plot.Plot
	manager *subgraph.Manager

	parentImg   *canvas.Image
	subImg      *canvas.Image
	parentStack *fyne.Container
	subStack    *fyne.Container
	selection   *selectionOverlay
	hover       *hoverOverlay
	backBtn     *widget.Button
	fileLabel   *widget.Label
	status      *widget.Label

	stopFollow context.CancelFunc
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

// drillView shows either the parent chart or the sub-graph, plus the Back button.
type drillView struct{ state *uiState }

func (v drillView) SetParentVisible(visible bool) {
	if visible {
		v.state.subStack.Hide()
		v.state.parentStack.Show()
	} else {
		v.state.parentStack.Hide()
		v.state.subStack.Show()
	}
	updateStatus(v.state)
}

func (v drillView) SetDismissVisible(visible bool) {
	if visible {
		v.state.backBtn.Show()
	} else {
		v.state.backBtn.Hide()
	}
}

func main() {
	var (
		fileFlag        string
		configFlag      string
		logLevelFlag    string
		followFlag      bool
		screenshotsFlag string
		selectFlag      string
	)
	flag.StringVar(&fileFlag, "file", "", "Path to a series JSONL file")
	flag.StringVar(&configFlag, "config", "", "Optional TOML config file")
	flag.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&followFlag, "follow", false, "Follow the file and append new samples live")
	flag.StringVar(&screenshotsFlag, "screenshots", "", "Render parent.png and subgraph.png into this directory and exit")
	flag.StringVar(&selectFlag, "select", "", "Domain range a:b to drill into in -screenshots mode (default: middle third)")
	flag.Parse()

	cfg, err := config.Load(configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.File = fileFlag
		case "log-level":
			cfg.LogLevel = logLevelFlag
		case "follow":
			cfg.Follow = followFlag
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logx.SetLogLevel(cfg.LogLevel)

	if screenshotsFlag != "" {
		if err := RunScreenshotsMode(cfg, screenshotsFlag, selectFlag); err != nil {
			logx.Errorf("screenshots: %v", err)
			os.Exit(1)
		}
		logx.Infof("wrote screenshots to %s", screenshotsFlag)
		return
	}

	a := app.NewWithID("com.chartdrilldown.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Drill-down Viewer")
	w.Resize(fyne.NewSize(1100, 760))

	state := &uiState{app: a, window: w, cfg: cfg, filePath: cfg.File, follow: cfg.Follow}
	if state.filePath == "" {
		state.filePath = a.Preferences().StringWithFallback("lastFile", "")
	}
	if !cfg.Follow {
		state.follow = a.Preferences().BoolWithFallback("follow", false)
	}

	if err := buildUI(state); err != nil {
		logx.Errorf("viewer: %v", err)
		os.Exit(1)
	}

	// Redraw the parent chart on window resize so it scales with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			if state.stopFollow != nil {
				state.stopFollow()
			}
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawParent(state) })
					}
				}
			}
		}()
	}

	loadAll(state)
	w.ShowAndRun()
}

// buildUI creates the widgets, the parent plot and the drill-down manager.
func buildUI(state *uiState) error {
	cfg := state.cfg
	state.parent = plot.New(cfg.ParentWidth, cfg.ParentHeight)
	state.parent.Title = cfg.Title

	state.parentImg = canvas.NewImageFromImage(plot.Blank(cfg.ParentWidth, cfg.ParentHeight))
	state.parentImg.FillMode = canvas.ImageFillContain
	state.parentImg.SetMinSize(fyne.NewSize(float32(cfg.ParentWidth), float32(cfg.ParentHeight)))
	state.subImg = canvas.NewImageFromImage(plot.Blank(cfg.SubWidth, cfg.SubHeight))
	state.subImg.FillMode = canvas.ImageFillContain
	state.subImg.SetMinSize(fyne.NewSize(float32(cfg.SubWidth), float32(cfg.SubHeight)))

	state.selection = newSelectionOverlay(state.parentImg)
	state.hover = newHoverOverlay(state.subImg, false)
	state.parentStack = container.NewStack(state.parentImg, state.selection)
	state.subStack = container.NewStack(state.subImg, state.hover)
	state.subStack.Hide()

	state.fileLabel = widget.NewLabel(truncatePath(state.filePath, 60))
	state.status = widget.NewLabel("")
	state.backBtn = widget.NewButtonWithIcon("Back", theme.NavigateBackIcon(), func() {
		if state.manager != nil {
			state.manager.Hide()
		}
	})

	m, err := subgraph.New(state.parent, subgraph.Options{
		Width:    cfg.SubWidth,
		Height:   cfg.SubHeight,
		Geometry: state.selection,
		Boxes:    state.selection,
		View:     drillView{state: state},
		Surfaces: func(spec subgraph.SurfaceSpec) (subgraph.Surface, error) {
			return plot.NewImageSurfaceFactory(plot.SurfaceOptions{
				TimeAxis: state.timeAxis,
				Caption:  true,
				Title:    cfg.Title,
				OnCreate: func(s *plot.ImageSurface) {
					s.OnImage = func(img image.Image) { showSubImage(state, s, img) }
				},
			})(spec)
		},
	})
	if err != nil {
		return fmt.Errorf("drill-down: %w", err)
	}
	state.manager = m
	state.selection.bind(m.Controller())
	state.parent.OnUpdate(func() { redrawParent(state) })

	followChk := widget.NewCheck("Follow", nil)
	followChk.SetChecked(state.follow)
	followChk.OnChanged = func(b bool) {
		state.follow = b
		savePrefs(state)
		if b {
			loadAll(state)
		} else if state.stopFollow != nil {
			state.stopFollow()
			state.stopFollow = nil
		}
	}

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state) }),
		widget.NewButton("Reload", func() { loadAll(state) }),
		followChk,
		state.backBtn,
		widget.NewLabel("File:"), state.fileLabel,
	)
	hint := widget.NewLabel("Drag across the chart to drill into a range. Esc or Back returns.")
	body := container.NewVScroll(container.NewVBox(state.parentStack, state.subStack))
	state.window.SetContent(container.NewBorder(top, container.NewHBox(state.status, hint), nil, nil, body))

	if c := state.window.Canvas(); c != nil {
		c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if ev.Name == fyne.KeyEscape && state.manager != nil {
				state.manager.Hide()
			}
		})
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { openFileDialog(state) })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { loadAll(state) })
	}
	return nil
}

// file open dialog
func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		state.fileLabel.SetText(truncatePath(state.filePath, 60))
		savePrefs(state)
		loadAll(state)
	}, state.window)
	d.Show()
}

// loadAll (re)reads the file into the parent plot. An open sub-graph stays open and resyncs through the
// plot's update notification.
func loadAll(state *uiState) {
	if state.stopFollow != nil {
		state.stopFollow()
		state.stopFollow = nil
	}
	if state.filePath == "" {
		return
	}
	series, offset, err := feed.Load(state.filePath)
	if err != nil {
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		logx.Errorf("[viewer] %v", err)
		return
	}
	applyColors(series, state.cfg.Colors)
	state.offset = offset
	state.timeAxis = looksLikeUnixTime(series)
	state.hover.timeAxis = state.timeAxis
	state.parent.TimeAxis = state.timeAxis
	state.parent.SetSeries(series)
	state.parent.Update()
	fmt.Printf("[viewer] loaded %d series from %s\n", len(series), state.filePath)
	if state.follow {
		startFollow(state)
	}
}

func startFollow(state *uiState) {
	ctx, cancel := context.WithCancel(context.Background())
	state.stopFollow = cancel
	path, offset := state.filePath, state.offset
	go func() {
		err := feed.Follow(ctx, path, offset, func(recs []feed.Record) {
			fyne.Do(func() { applyRecords(state, recs) })
		})
		if err != nil {
			logx.Errorf("[viewer] follow %s: %v", path, err)
		}
	}()
}

// applyRecords appends followed records to the parent plot and publishes one update for the batch.
func applyRecords(state *uiState, recs []feed.Record) {
	added := 0
	for _, rec := range recs {
		if rec.Meta != nil {
			kind := types.RendererKind("")
			if rec.Meta.Renderer != "" {
				kind = types.ParseRenderer(rec.Meta.Renderer)
			}
			state.parent.SetStyle(rec.Series, rec.Meta.Color, kind)
			continue
		}
		added += state.parent.Append(rec.Series, rec.Point)
	}
	logx.Debugf("[viewer] follow: %d records, %d points appended", len(recs), added)
	state.parent.Update()
}

// redrawParent renders the parent plot at the current window size.
func redrawParent(state *uiState) {
	w, h := chartSize(state)
	if cw, ch := state.parent.Size(); cw != w || ch != h {
		state.parent.Resize(w, h)
	}
	img, err := state.parent.Render()
	if err != nil {
		logx.Warnf("[viewer] render parent: %v", err)
		img = plot.Blank(w, h)
	}
	state.parentImg.Image = img
	state.parentImg.SetMinSize(fyne.NewSize(float32(w), float32(h)))
	state.parentImg.Refresh()
	state.selection.Refresh()
	updateStatus(state)
}

// showSubImage swaps the sub-graph image; nil means the overlay was dismissed.
func showSubImage(state *uiState, s *plot.ImageSurface, img image.Image) {
	if img == nil {
		state.subImg.Image = plot.Blank(s.Spec().Width, s.Spec().Height)
		state.hover.bind(nil)
	} else {
		state.subImg.Image = img
		state.hover.bind(s.Plot())
	}
	state.subImg.Refresh()
	updateStatus(state)
}

func updateStatus(state *uiState) {
	if state.status == nil || state.parent == nil {
		return
	}
	points := 0
	for _, s := range state.parent.Series() {
		points += len(s.Data)
	}
	text := fmt.Sprintf("%d series, %d points", len(state.parent.Series()), points)
	if state.manager != nil {
		if rng, ok := state.manager.Range(); ok {
			text += fmt.Sprintf(" | range %s .. %s (%d points)", formatX(rng.StartX, state.timeAxis), formatX(rng.EndX, state.timeAxis), state.manager.Scoped().Points())
		}
	}
	state.status.SetText(text)
}

// chartSize computes the parent chart size from the current window width.
func chartSize(state *uiState) (int, int) {
	if state == nil {
		d := config.Default()
		return d.ParentWidth, d.ParentHeight
	}
	if state.window == nil || state.window.Canvas() == nil {
		return state.cfg.ParentWidth, state.cfg.ParentHeight
	}
	sz := state.window.Canvas().Size()
	if sz.Width <= 0 {
		return state.cfg.ParentWidth, state.cfg.ParentHeight
	}
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func applyColors(series []*types.Series, colors map[string]string) {
	for _, s := range series {
		if c, ok := colors[s.Name]; ok && s.Color == "" {
			s.Color = c
		}
	}
}

// looksLikeUnixTime treats X values after 2001-09-09 as unix seconds.
func looksLikeUnixTime(series []*types.Series) bool {
	seen := false
	for _, s := range series {
		first, _, ok := s.Span()
		if !ok {
			continue
		}
		if first < 1e9 {
			return false
		}
		seen = true
	}
	return seen
}

func formatX(v float64, timeAxis bool) string {
	if timeAxis {
		return plot.FormatTimeTick(v)
	}
	return plot.FormatTick(v)
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetBool("follow", state.follow)
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
