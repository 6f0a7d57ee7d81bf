package main

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/iafilius/ChartDrilldown/src/feed"
)

func TestGenerate_WritesIncreasingX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.jsonl")
	w, err := feed.NewWriter(path)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	rnd := rand.New(rand.NewSource(7))
	walkers := []*walker{{name: "A", value: 50, rnd: rnd}, {name: "B", value: 10, rnd: rnd}}
	n := generate(context.Background(), w, walkers, 5, 20, 0, false)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n != 40 {
		t.Fatalf("expected 40 samples, got %d", n)
	}
	series, _, err := feed.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	for _, s := range series {
		if len(s.Data) != 20 {
			t.Fatalf("%s: expected 20 points, got %d", s.Name, len(s.Data))
		}
		first, last, _ := s.Span()
		if first != 5 || last != 24 {
			t.Fatalf("%s: span %v..%v", s.Name, first, last)
		}
		for _, p := range s.Data {
			if p.Y < 0 {
				t.Fatalf("%s: negative value %v", s.Name, p.Y)
			}
		}
	}
}

func TestGenerate_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.jsonl")
	w, err := feed.NewWriter(path)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	walkers := []*walker{{name: "A", rnd: rand.New(rand.NewSource(1))}}
	if n := generate(ctx, w, walkers, 0, 0, 0, false); n != 0 {
		t.Fatalf("cancelled context must write nothing, got %d", n)
	}
}
