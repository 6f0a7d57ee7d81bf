package plot

import (
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// NiceTicks generates up to about n tick marks covering [min, max] with 1, 2, 2.5, 5 x 10^k steps.
func NiceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		v = round6(v)
		ticks = append(ticks, chart.Tick{Value: v, Label: FormatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

// FormatTick renders a compact numeric label.
func FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	case av >= 0.01:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// pickTimeStep maps a span to a tick step and label layout.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 30 * time.Minute, "Jan 2 15:04"
	case span <= 24*time.Hour:
		return 1 * time.Hour, "Jan 2 15:04"
	case span <= 3*24*time.Hour:
		return 6 * time.Hour, "Jan 2 15:04"
	case span <= 14*24*time.Hour:
		return 24 * time.Hour, "Jan 2"
	default:
		return 7 * 24 * time.Hour, "Jan 2"
	}
}

// TimeTicks returns ticks for an X domain in unix seconds, aligned to the step boundary in UTC and
// limited to [min, max].
func TimeTicks(min, max float64) []chart.Tick {
	if math.IsNaN(min) || math.IsNaN(max) || max < min {
		return nil
	}
	minT := time.Unix(int64(math.Floor(min)), 0).UTC()
	maxT := time.Unix(int64(math.Ceil(max)), 0).UTC()
	step, layout := pickTimeStep(maxT.Sub(minT))
	st := int64(step.Seconds())
	aligned := time.Unix((minT.Unix()/st)*st, 0).UTC()
	ticks := []chart.Tick{}
	for t := aligned; !t.After(maxT); t = t.Add(step) {
		v := float64(t.Unix())
		if v < min {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: t.Format(layout)})
		if len(ticks) > 20 {
			break
		}
	}
	return ticks
}

// FormatTimeTick formats a unix-seconds domain value for hover labels.
func FormatTimeTick(v float64) string {
	return time.Unix(int64(math.Round(v)), 0).UTC().Format("2006-01-02 15:04:05")
}

// niceUpper rounds max up to the last tick NiceTicks would produce.
func niceUpper(min, max float64, n int) float64 {
	ticks := NiceTicks(min, max, n)
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < max {
		return max
	}
	return ticks[len(ticks)-1].Value
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
