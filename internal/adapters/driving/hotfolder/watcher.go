// Package hotfolder uploads files dropped into a watched directory.
//
// A file is uploaded once it has stopped changing for the settle delay,
// so a file that is written in several chunks is sent once.
package hotfolder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// DefaultSettle is how long a file must be quiet before it is uploaded.
const DefaultSettle = 500 * time.Millisecond

// Uploader is the part of driving.DocumentStore the watcher needs.
type Uploader interface {
	Upload(ctx context.Context, path string, format domain.UploadFormat, splitter string) error
}

// Config configures a Watcher.
type Config struct {
	Dir      string
	Format   domain.UploadFormat
	Splitter string

	// Settle defaults to DefaultSettle.
	Settle time.Duration

	// OnUpload, if set, is called after every upload attempt.
	OnUpload func(path string, err error)
}

// Watcher uploads new and changed files in one directory.
type Watcher struct {
	cfg   Config
	store Uploader
	exts  []string
	log   hclog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// New creates a watcher for cfg.Dir. Failed uploads are reported by the
// store's notifier and OnUpload; they never stop the watcher.
func New(cfg Config, store Uploader) (*Watcher, error) {
	if !cfg.Format.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, cfg.Format)
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, cfg.Dir)
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}

	return &Watcher{
		cfg:    cfg,
		store:  store,
		exts:   cfg.Format.Extensions(),
		log:    logger.Component("hotfolder"),
		timers: make(map[string]*time.Timer),
	}, nil
}

// Run watches until ctx is done, then waits for uploads already started.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.cfg.Dir, err)
	}
	w.log.Debug("watching", "dir", w.cfg.Dir, "format", w.cfg.Format, "extensions", w.exts)

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleEvent(ev); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// handleEvent reports whether ev names a file that should be uploaded.
func (w *Watcher) handleEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	if !slices.Contains(w.exts, strings.ToLower(filepath.Ext(name))) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return ev.Name, true
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		if t.Stop() {
			t.Reset(w.cfg.Settle)
			return
		}
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.cfg.Settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()
		w.upload(ctx, path)
	})
	w.timers[path] = t
}

func (w *Watcher) upload(ctx context.Context, path string) {
	w.log.Debug("uploading", "path", path)
	err := w.store.Upload(ctx, path, w.cfg.Format, w.cfg.Splitter)
	if err != nil {
		w.log.Warn("upload failed", "path", path, "error", err)
	}
	if w.cfg.OnUpload != nil {
		w.cfg.OnUpload(path, err)
	}
}

// stop cancels pending timers and waits for running uploads.
func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
