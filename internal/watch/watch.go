// Package watch reports changes to a fixed set of input files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"vaxmap/internal/logging"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher delivers the paths of changed files, once per burst. It watches
// the parent directories so files replaced by rename are still seen.
type Watcher struct {
	w        *fsnotify.Watcher
	log      logging.Logger
	debounce time.Duration
	files    map[string]string // cleaned absolute path -> path as given
	changes  chan []string
}

// New watches paths. Empty paths are skipped.
func New(paths []string, debounce time.Duration, log logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		w:        fw,
		log:      logging.OrNoop(log),
		debounce: debounce,
		files:    map[string]string{},
		changes:  make(chan []string, 1),
	}
	dirs := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return w, nil
}

// Changes receives the sorted paths changed in each burst, as they were
// given to New.
func (w *Watcher) Changes() <-chan []string { return w.changes }

// Run forwards changes until ctx is done or the watcher is closed. It
// closes the Changes channel on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			p, ok := w.relevant(ev)
			if !ok {
				continue
			}
			pending[p] = true
			debounce.Reset(w.debounce)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "watch error", logging.Err(err))
		case <-debounce.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)
			w.log.Debug(ctx, "files changed", logging.Any("paths", batch))
			select {
			case w.changes <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	p, ok := w.files[abs]
	return p, ok
}

func (w *Watcher) Close() error { return w.w.Close() }
