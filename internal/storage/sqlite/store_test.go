package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/louisbranch/tenfacts/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.sqlite")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = second.Close()
}

func TestPutGetRunRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	createdAt := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

	run := storage.Run{
		ID:           "run-1",
		Mode:         storage.ModeMulti,
		Start:        5,
		Pages:        2,
		Count:        3,
		Seed:         5,
		Locale:       "zh-CN",
		Format:       "tex",
		QuestionFile: "worksheet_no5-pages2-count3.tex",
		AnswerFile:   "worksheet_no5-pages2-count3_ans.tex",
		CreatedAt:    createdAt,
		PageRecords: []storage.RunPage{
			{Number: 6, Seed: 6, Keys: []string{"4-1=3", "2+2=4", "7-5=2"}},
			{Number: 5, Seed: 5, Keys: []string{"1+2=3", "9-8=1", "3+6=9"}},
		},
	}
	if err := store.PutRun(ctx, run); err != nil {
		t.Fatalf("put run: %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Mode != storage.ModeMulti || got.Start != 5 || got.Pages != 2 || got.Count != 3 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at = %v", got.CreatedAt)
	}
	if len(got.PageRecords) != 2 || got.PageRecords[0].Number != 5 {
		t.Fatalf("expected pages ordered by number, got %+v", got.PageRecords)
	}
	if !slices.Equal(got.PageRecords[1].Keys, []string{"4-1=3", "2+2=4", "7-5=2"}) {
		t.Fatalf("keys = %v", got.PageRecords[1].Keys)
	}
}

func TestPutRunRejectsDuplicateID(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	run := storage.Run{ID: "dup", Mode: storage.ModeSingle, Pages: 1, Count: 20}
	if err := store.PutRun(ctx, run); err != nil {
		t.Fatalf("put run: %v", err)
	}
	if err := store.PutRun(ctx, run); err == nil {
		t.Fatal("expected duplicate id to fail")
	}
}

func TestPutRunValidates(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	if err := store.PutRun(ctx, storage.Run{Mode: storage.ModeSingle}); err == nil {
		t.Fatal("expected missing id error")
	}
	if err := store.PutRun(ctx, storage.Run{ID: "x", Mode: "weekly"}); err == nil {
		t.Fatal("expected unknown mode error")
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := openTempStore(t)
	_, err := store.GetRun(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		run := storage.Run{
			ID:        id,
			Mode:      storage.ModeSingle,
			Pages:     1,
			Count:     20,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			PageRecords: []storage.RunPage{
				{Number: 1, Seed: int64(i), Keys: []string{"1+1=2"}},
			},
		}
		if err := store.PutRun(ctx, run); err != nil {
			t.Fatalf("put run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[0].PageRecords != nil {
		t.Fatal("list should not load page records")
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs default limit: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	var store *Store
	if err := store.PutRun(context.Background(), storage.Run{ID: "x", Mode: storage.ModeSingle}); err == nil {
		t.Fatal("expected error from nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ListRuns(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
