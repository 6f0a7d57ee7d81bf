package subgraph

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/iafilius/ChartDrilldown/src/types"
)

// NearestPoint is one series' candidate for a pixel query.
type NearestPoint struct {
	Point    types.Point
	Series   *types.Series
	Distance float64 // Euclidean, pixel space
	Order    int     // index among active series
}

// Result of a Locate call: the overall nearest point plus every per-series candidate.
type Result struct {
	Nearest NearestPoint
	Points  []NearestPoint
}

// Locator finds the data point closest to a pixel position across the active series of a chart.
type Locator struct {
	src SeriesSource
	tr  Transform
}

// NewLocator binds a locator to a chart's series and transforms.
func NewLocator(src SeriesSource, tr Transform) *Locator {
	return &Locator{src: src, tr: tr}
}

// Locate returns the nearest point to (px, py), chart-local pixels. ok is false when no active series has
// any point; callers treat that as "nothing to select", not as a failure.
func (l *Locator) Locate(px, py float64) (Result, bool) {
	var res Result
	if l == nil || l.src == nil || l.tr == nil {
		return res, false
	}
	active := l.src.Active()
	stacked := l.src.Stacked()
	domainX := l.tr.PixelToDomainX(px)
	found := false
	for j, s := range active {
		if j >= len(stacked) {
			break
		}
		data := stacked[j]
		if len(data) == 0 {
			continue
		}
		v := data[nearestIndex(data, domainX)]
		dist := math.Hypot(l.tr.XToPixel(v.X)-px, l.tr.YToPixel(v.Y+v.Y0)-py)
		np := NearestPoint{Point: v, Series: s, Distance: dist, Order: j}
		// strict '<': first encountered wins ties
		if !found || dist < res.Nearest.Distance {
			res.Nearest = np
			found = true
		}
		res.Points = append(res.Points, np)
	}
	return res, found
}

// estimateIndex maps domainX linearly from [first.X, last.X] onto [0, len-1], clamped to the ends.
func estimateIndex(data []types.Point, domainX float64) int {
	n := len(data)
	if n < 2 {
		return 0
	}
	var scale interp.PiecewiseLinear
	if err := scale.Fit([]float64{data[0].X, data[n-1].X}, []float64{0, float64(n - 1)}); err != nil {
		return 0
	}
	return int(math.Round(scale.Predict(domainX)))
}

// nearestIndex returns the index of the point closest to domainX in an X-ascending slice.
// Equidistant bracketing points resolve to the later one.
func nearestIndex(data []types.Point, domainX float64) int {
	n := len(data)
	if n <= 1 || math.IsNaN(domainX) {
		return 0
	}
	approx := estimateIndex(data, domainX)
	if approx >= n-1 {
		approx = n - 2
	}
	if approx < 0 {
		approx = 0
	}
	// The walk is monotone: once it moves in one direction it keeps going until it brackets domainX or
	// runs off an end.
	for i := approx; i >= 0 && i < n-1; {
		if data[i].X <= domainX && data[i+1].X > domainX {
			if math.Abs(domainX-data[i].X) < math.Abs(domainX-data[i+1].X) {
				return i
			}
			return i + 1
		}
		if data[i+1].X <= domainX {
			i++
		} else {
			i--
		}
	}
	if domainX >= data[n-1].X {
		return n - 1
	}
	return 0
}
