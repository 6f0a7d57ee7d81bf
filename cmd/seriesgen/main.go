// Series generator: appends synthetic samples to a JSONL file so the viewer's -follow mode has a live
// feed to drill into.
//
// Every iteration writes one point per series. X is either a running index or, with -time, the current
// unix time in seconds. Values follow a bounded random walk per series.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/iafilius/ChartDrilldown/src/feed"
	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/types"
)

// walker produces the next sample of one series.
type walker struct {
	name  string
	value float64
	rnd   *rand.Rand
}

func (w *walker) next(step float64) float64 {
	w.value += (w.rnd.Float64()*2 - 1) * step
	w.value = math.Max(0, w.value)
	return math.Round(w.value*100) / 100
}

// generate writes iterations rounds of samples (0 means until ctx is done), one round per interval.
// X continues from start.
func generate(ctx context.Context, w *feed.Writer, walkers []*walker, start float64, iterations int, interval time.Duration, useTime bool) int {
	x := start
	written := 0
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	for i := 0; iterations <= 0 || i < iterations; i++ {
		if i > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return written
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return written
		}
		if useTime {
			x = math.Max(x+1, float64(time.Now().Unix()))
		} else if i > 0 {
			x++
		}
		for _, wk := range walkers {
			w.Write(feed.Record{Series: wk.name, Point: types.Point{X: x, Y: wk.next(5)}})
			written++
		}
	}
	return written
}

func main() {
	out := flag.String("out", "series.jsonl", "Output JSONL file (appended)")
	names := flag.String("series", "A,B", "Comma separated series names")
	renderer := flag.String("renderer", "line", "Renderer written in meta lines (line|area|bar|scatterplot)")
	iterations := flag.Int("iterations", 100, "Number of rounds; 0 runs until interrupted")
	interval := flag.Duration("interval", 0, "Pause between rounds (e.g. 1s for a live feed)")
	useTime := flag.Bool("time", false, "Use unix seconds as X instead of a running index")
	seed := flag.Int64("seed", 1, "Random seed")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	logx.SetLogLevel(*logLevel)
	if *iterations <= 0 && *interval <= 0 {
		*interval = time.Second
	}

	// continue an existing file where it left off
	start := 0.0
	if series, _, err := feed.Load(*out); err == nil {
		for _, s := range series {
			if _, last, ok := s.Span(); ok && last+1 > start {
				start = last + 1
			}
		}
	}

	w, err := feed.NewWriter(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	rnd := rand.New(rand.NewSource(*seed))
	var walkers []*walker
	for _, n := range strings.Split(*names, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		walkers = append(walkers, &walker{name: n, value: 20 + rnd.Float64()*60, rnd: rnd})
		w.Write(feed.Record{Series: n, Meta: &feed.Meta{Renderer: *renderer}})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	n := generate(ctx, w, walkers, start, *iterations, *interval, *useTime)
	if err := w.Close(); err != nil {
		logx.Errorf("writer: %v", err)
		os.Exit(1)
	}
	logx.Infof("wrote %d samples for %d series to %s", n, len(walkers), *out)
}
