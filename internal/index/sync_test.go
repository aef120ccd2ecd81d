package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/quire/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func syncEnv(t *testing.T) (*storage.FS, *DB) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store, testDB(t)
}

func TestSync_CompilesAndRemoves(t *testing.T) {
	store, db := syncEnv(t)
	for i := range 8 {
		src := fmt.Sprintf("title: Doc %d\nevents:\n  - begin-list\n  - new-item\n  - text: item %d\n  - end-list\n", i, i)
		if err := store.Write(fmt.Sprintf("d%d.qdoc", i), []byte(src)); err != nil {
			t.Fatal(err)
		}
	}
	_ = db.UpsertDocument(DocumentRow{Path: "stale.qdoc", Checksum: "old"}, "", "")

	rep, err := Sync(context.Background(), db, store, Options{Workers: 3, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if rep.Compiled != 8 || rep.Removed != 1 || rep.Failed != 0 {
		t.Errorf("report = %+v", rep)
	}
	row, err := db.GetDocument("d3.qdoc")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if row.Title != "Doc 3" || row.Items != 1 {
		t.Errorf("row = %+v", row)
	}

	// Unchanged sources are skipped on the next pass.
	rep, _ = Sync(context.Background(), db, store, Options{Logger: quietLogger()})
	if rep.Compiled != 0 {
		t.Errorf("second pass compiled %d", rep.Compiled)
	}
}

func TestSync_StrictSkipsBadSource(t *testing.T) {
	store, db := syncEnv(t)
	_ = store.Write("ok.qdoc", []byte("events:\n  - text: fine\n"))
	_ = store.Write("bad.qdoc", []byte("events:\n  - begin-list\n  - switch-to-content\n"))

	rep, err := Sync(context.Background(), db, store, Options{Strict: true, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if rep.Compiled != 1 || rep.Failed != 1 {
		t.Errorf("report = %+v", rep)
	}
	if cs, _ := db.GetChecksum("bad.qdoc"); cs != "" {
		t.Error("bad source should not be indexed")
	}

	// Lenient mode keeps the document and counts the diagnostic.
	rep, _ = Sync(context.Background(), db, store, Options{Logger: quietLogger()})
	if rep.Compiled != 1 {
		t.Errorf("lenient report = %+v", rep)
	}
	row, err := db.GetDocument("bad.qdoc")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if row.Diagnostics == 0 {
		t.Error("expected diagnostics to be recorded")
	}
}

func TestSync_CancelledContext(t *testing.T) {
	store, db := syncEnv(t)
	_ = store.Write("a.qdoc", []byte("events:\n  - text: a\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sync(ctx, db, store, Options{Logger: quietLogger()}); err == nil {
		t.Error("expected error from cancelled context")
	}
}
