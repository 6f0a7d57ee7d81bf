package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iafilius/ChartDrilldown/src/feed"
	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
	"github.com/iafilius/ChartDrilldown/src/types"
)

func main() {
	var file, logLevel string
	var from, to float64
	flag.StringVar(&file, "file", "series.jsonl", "Path to a series JSONL file")
	flag.Float64Var(&from, "from", 0, "Range start (domain units); with -to, also count points in range")
	flag.Float64Var(&to, "to", 0, "Range end (domain units)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()
	logx.SetLogLevel(logLevel)

	var rng *types.SelectionRange
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["from"] || set["to"] {
		r := types.NewSelectionRange(from, to)
		rng = &r
	}

	series, _, err := feed.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	report(os.Stdout, series, rng)
}

// report prints one line per series: point count, X span and, when rng is set, the in-range count.
func report(w io.Writer, series []*types.Series, rng *types.SelectionRange) {
	var scoped *subgraph.ScopedSet
	if rng != nil {
		scoped = subgraph.NewScopedSet()
		subgraph.Scope(series, *rng, scoped)
	}
	total := 0
	fmt.Fprintf(w, "Total series: %d\n", len(series))
	for _, s := range series {
		total += len(s.Data)
		line := fmt.Sprintf("%s: %d points", s.Name, len(s.Data))
		if first, last, ok := s.Span(); ok {
			line += fmt.Sprintf(", x %g .. %g", first, last)
		}
		if scoped != nil {
			n := 0
			if e, ok := scoped.Get(s.Name); ok {
				n = len(e.Data)
			}
			line += fmt.Sprintf(", %d in [%g, %g]", n, rng.StartX, rng.EndX)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Total points: %d\n", total)
	if scoped != nil {
		fmt.Fprintf(w, "Points in range: %d\n", scoped.Points())
	}
}
