package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/iafilius/ChartDrilldown/src/logx"
)

// Encode renders rec as one JSONL line without the trailing newline.
func Encode(rec Record) ([]byte, error) {
	if rec.Meta != nil {
		m := *rec.Meta
		if m.Series == "" {
			m.Series = rec.Series
		}
		return json.Marshal(struct {
			Meta Meta `json:"meta"`
		}{m})
	}
	x, y := rec.Point.X, rec.Point.Y
	return json.Marshal(rawRecord{Series: rec.Series, X: &x, Y: &y})
}

// Writer appends records to a JSONL file from a single goroutine fed by a buffered channel, so producers
// never interleave partial lines.
type Writer struct {
	path string
	f    *os.File
	ch   chan Record
	wg   sync.WaitGroup
	once sync.Once

	mu  sync.Mutex
	err error
}

// NewWriter opens path for appending, creating it when missing.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	w := &Writer{path: path, f: f, ch: make(chan Record, 128)}
	w.wg.Add(1)
	go w.loop()
	logx.Debugf("[feed] writer appending to %s", path)
	return w, nil
}

func (w *Writer) loop() {
	defer w.wg.Done()
	for rec := range w.ch {
		b, err := Encode(rec)
		if err == nil {
			_, err = w.f.Write(append(b, '\n'))
		}
		if err != nil {
			logx.Warnf("[feed] write %s: %v", w.path, err)
			w.mu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.mu.Unlock()
		}
	}
}

// Write queues rec. It must not be called after Close.
func (w *Writer) Write(rec Record) { w.ch <- rec }

// Close flushes queued records, closes the file and returns the first write error.
func (w *Writer) Close() error {
	w.once.Do(func() {
		close(w.ch)
		w.wg.Wait()
		if err := w.f.Close(); err != nil {
			w.mu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.mu.Unlock()
		}
	})
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
