// Package inbox imports backup documents dropped into a watched directory.
// Each *.json file is imported once it stops changing and is then moved to
// processed/ or, when the document is rejected, to rejected/.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/debounce"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const (
	ProcessedDir = "processed"
	RejectedDir  = "rejected"

	// DefaultSettle is how long a file must stay unchanged before import.
	DefaultSettle = 500 * time.Millisecond
)

// Importer consumes a backup document. services.BackupService implements it.
type Importer interface {
	Import(ctx context.Context, r io.Reader) (int, error)
}

type Watcher struct {
	dir      string
	importer Importer
	logger   logging.Logger
	settle   time.Duration

	// mu serializes imports so two files never interleave.
	mu sync.Mutex
	// closed is set under mu once Run has returned; late callbacks skip.
	closed bool
}

func NewWatcher(dir string, importer Importer, l logging.Logger, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		dir:      dir,
		importer: importer,
		logger:   l.With("module", "inbox", "dir", dir),
		settle:   settle,
	}
}

// Run imports files already waiting in the directory, then watches it until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := filex.EnsureDir(w.dir)
	if err != nil {
		return fmt.Errorf("inbox dir: %w", err)
	}
	w.dir = dir
	w.mu.Lock()
	w.closed = false
	w.mu.Unlock()
	for _, sub := range []string{ProcessedDir, RejectedDir} {
		if _, err := filex.EnsureDir(filepath.Join(dir, sub)); err != nil {
			return fmt.Errorf("inbox dir: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	d := debounce.New(w.settle)
	defer func() {
		d.Stop()
		// waits for an import already in progress; the caller closes the store next
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
	}()

	w.sweep(ctx)
	w.logger.Info(ctx, "watching inbox")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isCandidate(event.Name) {
				continue
			}
			path := event.Name
			d.Debounce(path, func() { w.process(ctx, path) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "watcher error", "error", err)
		}
	}
}

func isCandidate(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(filepath.Ext(base), ".json") && !strings.HasPrefix(base, ".")
}

func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn(ctx, "inbox scan failed", "error", err)
		return
	}
	for _, e := range entries {
		if e.Type().IsRegular() && isCandidate(e.Name()) {
			w.process(ctx, filepath.Join(w.dir, e.Name()))
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		// already handled by an earlier event
		return
	}
	if err != nil {
		w.logger.Warn(ctx, "inbox open failed", "file", path, "error", err)
		return
	}
	n, err := w.importer.Import(ctx, f)
	_ = f.Close()

	target := ProcessedDir
	if err != nil {
		target = RejectedDir
		w.logger.Warn(ctx, "inbox file rejected", "file", filepath.Base(path), "error", err)
	} else {
		w.logger.Info(ctx, "inbox file imported", "file", filepath.Base(path), "tasks", n)
	}

	dst := filepath.Join(w.dir, target, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		w.logger.Error(ctx, "inbox move failed", "file", path, "error", err)
	}
}
