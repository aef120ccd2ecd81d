package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/quire/internal/storage"
)

// Change kinds reported to an EventCallback.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind string, path string)

const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the vault root and recompiles sources
// as they change until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// New directories are added to the watch list. Rename events trigger a
// reconciliation pass against the vault listing.
func Watch(ctx context.Context, db *DB, store storage.Provider, vaultRoot string, opts Options, cb EventCallback) error {
	logger := opts.logger()
	if cb == nil {
		cb = func(string, string) {}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", vaultRoot))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time
	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, opts, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
					if strings.HasPrefix(info.Name(), ".") {
						continue
					}
					if addErr := addDirsRecursive(w, abs); addErr != nil {
						logger.Warn("watcher: add new dir failed", slog.String("path", abs), slog.String("error", addErr.Error()))
					}
					// Files may land before the directory is watched.
					scheduleReconcile()
					continue
				}
			}

			if !storage.IsSource(filepath.Base(abs)) {
				continue
			}
			rel, relErr := filepath.Rel(vaultRoot, abs)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if idxErr := indexFile(db, store, rel, opts); idxErr != nil {
					logger.Warn("watcher: compile failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := ChangeUpdated
				if ev.Op&fsnotify.Create != 0 {
					kind = ChangeCreated
				}
				logger.Debug("watcher: compiled", slog.String("path", rel), slog.String("op", kind))
				cb(kind, rel)

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteDocument(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				cb(ChangeDeleted, rel)

			case ev.Op&fsnotify.Rename != 0:
				// Rename fires on the old path only; the new path arrives
				// as a Create if it stays inside a watched directory.
				if delErr := db.DeleteDocument(rel); delErr == nil {
					cb(ChangeDeleted, rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile removes index entries without a file on disk and compiles
// on-disk sources whose checksum differs from the index.
func reconcile(db *DB, store storage.Provider, opts Options, cb EventCallback) {
	logger := opts.logger()

	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := store.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if delErr := db.DeleteDocument(p); delErr == nil {
			logger.Debug("reconcile: removed stale", slog.String("path", p))
			cb(ChangeDeleted, p)
		}
	}

	for p, cs := range disk {
		old, known := checksums[p]
		if old == cs {
			continue
		}
		if idxErr := indexFile(db, store, p, opts); idxErr != nil {
			logger.Warn("reconcile: compile failed", slog.String("path", p), slog.String("error", idxErr.Error()))
			continue
		}
		kind := ChangeUpdated
		if !known {
			kind = ChangeCreated
		}
		logger.Debug("reconcile: compiled", slog.String("path", p))
		cb(kind, p)
	}
}

// addDirsRecursive adds root and its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
