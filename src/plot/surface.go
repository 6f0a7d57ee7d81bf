package plot

import (
	"fmt"
	"image"

	"github.com/iafilius/ChartDrilldown/src/subgraph"
	"github.com/iafilius/ChartDrilldown/src/types"
)

// SurfaceOptions configures surfaces built by NewImageSurfaceFactory.
type SurfaceOptions struct {
	TimeAxis bool
	Caption  bool   // draw the selected range onto every image
	Title    string // optional prefix for the sub-graph title
	// OnCreate runs for every new surface before its first render, e.g. to attach OnImage.
	OnCreate func(s *ImageSurface)
}

// ImageSurface is a drill-down surface backed by its own Plot. Every Render replaces the plot's series
// with the given copy and re-renders the image.
type ImageSurface struct {
	// OnImage receives each rendered image, and nil after Clear.
	OnImage func(img image.Image)

	plot    *Plot
	spec    subgraph.SurfaceSpec
	caption bool
	img     image.Image
	renders int
}

// NewImageSurface builds a surface for spec.
func NewImageSurface(spec subgraph.SurfaceSpec, opts SurfaceOptions) *ImageSurface {
	p := New(spec.Width, spec.Height)
	p.TimeAxis = opts.TimeAxis
	p.Title = rangeTitle(opts.Title, spec.Range, opts.TimeAxis)
	return &ImageSurface{plot: p, spec: spec, caption: opts.Caption}
}

// NewImageSurfaceFactory returns a factory for the drill-down manager.
func NewImageSurfaceFactory(opts SurfaceOptions) subgraph.SurfaceFactory {
	return func(spec subgraph.SurfaceSpec) (subgraph.Surface, error) {
		if spec.Width <= 0 || spec.Height <= 0 {
			return nil, fmt.Errorf("surface size %dx%d", spec.Width, spec.Height)
		}
		s := NewImageSurface(spec, opts)
		if opts.OnCreate != nil {
			opts.OnCreate(s)
		}
		return s, nil
	}
}

// Plot is the sub-graph plot, usable as a Host for hover lookups.
func (s *ImageSurface) Plot() *Plot { return s.plot }

// Spec returns the spec the surface was built for.
func (s *ImageSurface) Spec() subgraph.SurfaceSpec { return s.spec }

// Image is the last rendered image, nil when cleared.
func (s *ImageSurface) Image() image.Image { return s.img }

// Renders counts successful renders.
func (s *ImageSurface) Renders() int { return s.renders }

// Render implements subgraph.Surface.
func (s *ImageSurface) Render(series []types.Series) error {
	s.plot.SetSeriesValues(series)
	s.plot.Update()
	img, err := s.plot.Render()
	if err != nil {
		return fmt.Errorf("render sub-graph: %w", err)
	}
	if s.caption {
		n := 0
		for _, ser := range series {
			n += len(ser.Data)
		}
		img = DrawCaption(img, fmt.Sprintf("%s  (%d points)", rangeLabel(s.spec.Range, s.plot.TimeAxis), n))
	}
	s.img = img
	s.renders++
	if s.OnImage != nil {
		s.OnImage(img)
	}
	return nil
}

// Clear implements subgraph.Surface.
func (s *ImageSurface) Clear() {
	s.plot.SetSeries(nil)
	s.img = nil
	if s.OnImage != nil {
		s.OnImage(nil)
	}
}

func rangeLabel(rng types.SelectionRange, timeAxis bool) string {
	if timeAxis {
		return FormatTimeTick(rng.StartX) + " .. " + FormatTimeTick(rng.EndX)
	}
	return FormatTick(rng.StartX) + " .. " + FormatTick(rng.EndX)
}

func rangeTitle(prefix string, rng types.SelectionRange, timeAxis bool) string {
	if prefix == "" {
		return rangeLabel(rng, timeAxis)
	}
	return prefix + ": " + rangeLabel(rng, timeAxis)
}

var (
	_ subgraph.Host    = (*Plot)(nil)
	_ subgraph.Surface = (*ImageSurface)(nil)
)
