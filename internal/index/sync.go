package index

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/quire/internal/compile"
	"github.com/starford/quire/internal/models"
	"github.com/starford/quire/internal/storage"
)

// Options configures compilation during Sync and Watch.
type Options struct {
	Strict  bool
	Workers int // concurrent compiles; <= 0 means GOMAXPROCS
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Report summarises one Sync pass.
type Report struct {
	Compiled int
	Removed  int
	Failed   int
}

// Sync walks the vault and brings the index up to date:
//   - new or changed sources are compiled concurrently and upserted
//   - sources removed from disk are deleted from the index
//
// A source that fails to compile is logged and left out of the index.
func Sync(ctx context.Context, db *DB, store storage.Provider, opts Options) (Report, error) {
	var rep Report
	logger := opts.logger()

	metas, err := store.List("")
	if err != nil {
		return rep, err
	}
	checksums, err := db.AllChecksums()
	if err != nil {
		return rep, err
	}

	disk := make(map[string]struct{}, len(metas))
	var changed []models.DocumentMetadata
	for _, m := range metas {
		disk[m.Path] = struct{}{}
		if checksums[m.Path] != m.Checksum {
			changed = append(changed, m)
		}
	}

	// Compile in parallel, write serially: SQLite has a single writer.
	outs := make([]*compile.Output, len(changed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, m := range changed {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := compileFile(store, m.Path, opts)
			if err != nil {
				logger.Warn("sync: compile failed", slog.String("path", m.Path), slog.String("error", err.Error()))
				return nil
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}

	for i, m := range changed {
		if outs[i] == nil {
			rep.Failed++
			continue
		}
		if err := db.PutCompiled(m.Path, outs[i], m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			rep.Failed++
			continue
		}
		rep.Compiled++
		logger.Debug("sync: compiled", slog.String("path", m.Path), slog.Int("diagnostics", len(outs[i].Diagnostics)))
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteDocument(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		rep.Removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
	}

	return rep, nil
}

func compileFile(store storage.Provider, path string, opts Options) (*compile.Output, error) {
	data, err := store.Read(path)
	if err != nil {
		return nil, err
	}
	return compile.Source(data, compile.Options{
		Strict: opts.Strict,
		Logger: opts.logger().With(slog.String("path", path)),
	})
}

// indexFile compiles the source at path and upserts it.
func indexFile(db *DB, store storage.Provider, path string, opts Options) error {
	out, err := compileFile(store, path, opts)
	if err != nil {
		return err
	}
	return db.PutCompiled(path, out, time.Now())
}
