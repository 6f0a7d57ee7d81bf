package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iafilius/ChartDrilldown/src/logx"
)

// PollInterval is the fallback re-read period for filesystems that drop change events.
var PollInterval = time.Second

// Follow watches path and calls fn with the records of every complete line appended after offset. fn runs
// on the Follow goroutine; callers that touch UI state must marshal. A shrinking file is treated as
// truncated and re-read from the start; a removed file is picked up again when it is recreated.
// Follow returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, offset int64, fn func([]Record)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()
	clean := filepath.Clean(path)
	// Watch the directory so rotation (remove + create) keeps working.
	if err := w.Add(filepath.Dir(clean)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(clean), err)
	}
	logx.Infof("[feed] following %s from offset %d", clean, offset)

	poll := func() {
		recs, next, err := readFrom(clean, offset)
		if err != nil {
			if !os.IsNotExist(err) {
				logx.Warnf("[feed] %v", err)
			}
			return
		}
		offset = next
		if len(recs) > 0 {
			fn(recs)
		}
	}
	poll()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != clean {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				logx.Infof("[feed] %s went away, waiting for it to reappear", clean)
				offset = 0
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
				poll()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logx.Warnf("[feed] watcher: %v", err)
		case <-ticker.C:
			poll()
		}
	}
}

// readFrom decodes the complete lines past offset and returns the new offset.
func readFrom(path string, offset int64) ([]Record, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, offset, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.Size() < offset {
		logx.Infof("[feed] %s truncated (%d < %d), reading from start", path, fi.Size(), offset)
		offset = 0
	}
	if fi.Size() == offset {
		return nil, offset, nil
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek %s: %w", path, err)
	}
	recs, consumed, err := readRecords(bufio.NewReader(f), path, false)
	return recs, offset + consumed, err
}
