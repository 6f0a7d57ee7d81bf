// Package feed reads series samples from a JSON-lines file and follows it as it grows.
//
// Each line is one record:
//
//	{"series":"A","x":12,"y":3.5}
//	{"series":"A","t":"2024-01-02T15:04:05Z","y":3.5}
//	{"meta":{"series":"A","color":"#1f77b4","renderer":"area"}}
//
// "t" is used as X (unix seconds) when "x" is absent. Meta lines style a series and may appear anywhere.
package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/types"
)

// MaxLineBytes caps a single JSONL line.
const MaxLineBytes = 16 * 1024 * 1024

// Meta styles a series.
type Meta struct {
	Series   string `json:"series"`
	Color    string `json:"color,omitempty"`
	Renderer string `json:"renderer,omitempty"`
}

// Record is one decoded line: either a sample for Series or, when Meta is set, a style update.
type Record struct {
	Series string
	Point  types.Point
	Meta   *Meta
}

type rawRecord struct {
	Series string   `json:"series"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	T      string   `json:"t,omitempty"`
	Meta   *Meta    `json:"meta,omitempty"`
}

// Decode parses one line. ok is false for blank, malformed or incomplete records.
func Decode(line []byte) (Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Record{}, false
	}
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, false
	}
	if raw.Meta != nil {
		if raw.Meta.Series == "" {
			return Record{}, false
		}
		return Record{Series: raw.Meta.Series, Meta: raw.Meta}, true
	}
	if raw.Series == "" || raw.Y == nil {
		return Record{}, false
	}
	var x float64
	switch {
	case raw.X != nil:
		x = *raw.X
	case raw.T != "":
		ts, err := time.Parse(time.RFC3339Nano, raw.T)
		if err != nil {
			return Record{}, false
		}
		x = float64(ts.UnixMilli()) / 1000
	default:
		return Record{}, false
	}
	return Record{Series: raw.Series, Point: types.Point{X: x, Y: *raw.Y}}, true
}

// Apply folds records into series and returns the (possibly extended) slice. New series are appended in
// first-seen order. Samples that do not increase X within their series are dropped.
func Apply(series []*types.Series, records []Record) []*types.Series {
	find := func(name string) *types.Series {
		for _, s := range series {
			if s.Name == name {
				return s
			}
		}
		s := &types.Series{Name: name, Renderer: types.RendererLine}
		series = append(series, s)
		return s
	}
	for _, rec := range records {
		s := find(rec.Series)
		if rec.Meta != nil {
			if rec.Meta.Color != "" {
				s.Color = rec.Meta.Color
			}
			if rec.Meta.Renderer != "" {
				s.Renderer = types.ParseRenderer(rec.Meta.Renderer)
			}
			continue
		}
		if n := len(s.Data); n > 0 && rec.Point.X <= s.Data[n-1].X {
			logx.Debugf("[feed] %s: dropping non-increasing x=%g", s.Name, rec.Point.X)
			continue
		}
		s.Data = append(s.Data, rec.Point)
	}
	return series
}

// Load reads the whole file. It returns the series in first-seen order and the byte offset just past the
// last consumed line, which Follow can continue from.
func Load(path string) ([]*types.Series, int64, error) {
	defer logx.TimeTrack(time.Now(), "feed.Load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	records, consumed, err := readRecords(bufio.NewReader(f), path, true)
	if err != nil {
		return nil, 0, err
	}
	series := Apply(nil, records)
	logx.Infof("[feed] loaded %d records into %d series from %s", len(records), len(series), path)
	return series, consumed, nil
}

// readRecords decodes lines until EOF. A final line without a newline is only consumed when acceptTail is
// set and it decodes; otherwise it is left for the next read, since a writer may still be appending to it.
func readRecords(r *bufio.Reader, path string, acceptTail bool) ([]Record, int64, error) {
	var (
		records  []Record
		consumed int64
		skipped  int
	)
	for {
		var line []byte
		complete := false
		for {
			part, rerr := r.ReadBytes('\n')
			if len(part) > 0 {
				if len(line)+len(part) > MaxLineBytes {
					return records, consumed, fmt.Errorf("line too large: %d bytes exceeds limit %d in %s", len(line)+len(part), MaxLineBytes, path)
				}
				line = append(line, part...)
			}
			if rerr == nil {
				complete = true
				break
			}
			if errors.Is(rerr, io.EOF) {
				break
			}
			if errors.Is(rerr, bufio.ErrBufferFull) {
				continue
			}
			return records, consumed, fmt.Errorf("read %s: %w", path, rerr)
		}
		if len(line) == 0 {
			break
		}
		rec, ok := Decode(line)
		if !complete {
			if acceptTail && ok {
				records = append(records, rec)
				consumed += int64(len(line))
			}
			break
		}
		consumed += int64(len(line))
		if ok {
			records = append(records, rec)
		} else if len(bytes.TrimSpace(line)) > 0 {
			skipped++
		}
	}
	if skipped > 0 {
		logx.Warnf("[feed] skipped %d malformed lines in %s", skipped, path)
	}
	return records, consumed, nil
}
