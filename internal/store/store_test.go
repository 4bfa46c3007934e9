package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_StartAndFinishRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.StartRun(ctx, "run-1", "engine.a2l", "engine.translated_es.a2l", "es"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != StatusRunning {
		t.Errorf("expected status %q, got %q", StatusRunning, runs[0].Status)
	}
	if runs[0].FinishedAt.Valid {
		t.Error("expected unset finished_at while running")
	}

	if err := s.FinishRun(ctx, "run-1", StatusCompleted, 1200, 340, 87); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err = s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	r := runs[0]
	if r.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, r.Status)
	}
	if r.LinesTotal != 1200 || r.LinesChanged != 340 || r.CacheEntries != 87 {
		t.Errorf("unexpected counters: %+v", r)
	}
	if !r.FinishedAt.Valid {
		t.Error("expected finished_at set after FinishRun")
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.StartRun(ctx, "run-1", "a.a2l", "a.translated_es.a2l", "es")
	_ = s.FinishRun(ctx, "run-1", StatusCompleted, 100, 30, 10)
	_ = s.StartRun(ctx, "run-2", "b.a2l", "b.translated_de.a2l", "de")
	_ = s.FinishRun(ctx, "run-2", StatusInterrupted, 50, 5, 3)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalRuns != 2 {
		t.Errorf("expected 2 runs, got %d", stats.TotalRuns)
	}
	if stats.Completed != 1 || stats.Interrupted != 1 {
		t.Errorf("expected 1 completed / 1 interrupted, got %d / %d", stats.Completed, stats.Interrupted)
	}
	if stats.LinesTotal != 150 || stats.LinesChanged != 35 {
		t.Errorf("expected 150 / 35 line totals, got %d / %d", stats.LinesTotal, stats.LinesChanged)
	}
}

func TestStore_ClearRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.StartRun(ctx, "run-1", "a.a2l", "a.translated_es.a2l", "es")
	_ = s.StartRun(ctx, "run-2", "b.a2l", "b.translated_es.a2l", "es")

	n, err := s.ClearRuns(ctx)
	if err != nil {
		t.Fatalf("ClearRuns failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 cleared runs, got %d", n)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty ledger, got %d runs", len(runs))
	}
}
