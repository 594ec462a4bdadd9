// Package autoindex watches an inbox directory and imports screenshots
// dropped into it without user interaction.
package autoindex

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kennithz884/snapmind/internal/gallery"
	"github.com/kennithz884/snapmind/internal/importer"
	"github.com/kennithz884/snapmind/internal/library"
)

// Notify is called with the record id after a watcher-driven import.
type Notify func(id string)

// settleDelay is how long a file must be quiet before it is imported.
// Screenshots are usually written in one burst, but downloads and network
// copies can arrive in chunks.
const settleDelay = 500 * time.Millisecond

// Watch starts an fsnotify watcher on the inbox directory and imports new
// image files until ctx is cancelled. Each file is imported as a
// one-element batch; on success the file is removed from the inbox, on
// failure it is left in place so the user can retry through the UI.
//
// Files already sitting in the inbox at startup are imported first.
func Watch(ctx context.Context, svc *gallery.Service, inbox string, logger *slog.Logger, cb Notify) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(inbox); err != nil {
		return err
	}

	logger.Info("autoindex: started", slog.String("inbox", inbox))

	sweepExisting(ctx, svc, inbox, logger, cb)

	// Per-file settle timers so half-written files are not imported.
	pending := make(map[string]*time.Timer)
	settleCh := make(chan string, 64)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("autoindex: stopped")
			return nil

		case path := <-settleCh:
			delete(pending, path)
			importOne(ctx, svc, path, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !library.IsImage(ev.Name) {
				continue
			}
			if info, statErr := os.Stat(ev.Name); statErr != nil || info.IsDir() {
				continue
			}
			if t, exists := pending[ev.Name]; exists {
				t.Reset(settleDelay)
			} else {
				path := ev.Name
				pending[path] = time.AfterFunc(settleDelay, func() {
					select {
					case settleCh <- path:
					case <-ctx.Done():
					}
				})
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("autoindex: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sweepExisting imports image files that were dropped into the inbox
// while the watcher was not running.
func sweepExisting(ctx context.Context, svc *gallery.Service, inbox string, logger *slog.Logger, cb Notify) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		logger.Warn("autoindex: sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() || !library.IsImage(e.Name()) {
			continue
		}
		importOne(ctx, svc, filepath.Join(inbox, e.Name()), logger, cb)
	}
}

func importOne(ctx context.Context, svc *gallery.Service, path string, logger *slog.Logger, cb Notify) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("autoindex: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	result, err := svc.Import(ctx, []importer.Image{{Name: filepath.Base(path), Data: data}})
	if err != nil {
		logger.Warn("autoindex: import failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	if len(result.Inserted) == 0 {
		// Extraction failed; the file stays for a user-initiated retry.
		logger.Warn("autoindex: extraction skipped", slog.String("path", path))
		return
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("autoindex: cleanup failed", slog.String("path", path), slog.String("error", err.Error()))
	}

	rec := result.Inserted[0]
	logger.Info("autoindex: imported",
		slog.String("path", path),
		slog.String("id", rec.ID),
		slog.String("category", string(rec.Category)))
	if cb != nil {
		cb(rec.ID)
	}
}
