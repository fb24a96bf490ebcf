package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"wastechart/internal/core"
	"wastechart/internal/log"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "data", "history.db")
	repo, err := NewSQLiteRepository(dbPath, log.New(log.Config{Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndListRenderEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	events := []core.RenderEvent{
		{ID: "a", Kind: core.KindBar, Month: 3, Year: 2024, Success: true, Bytes: 1024, DurationMs: 12, Timestamp: base},
		{ID: "b", Kind: core.KindPie, Month: 3, Year: 2024, Success: false, Error: "No data available for the specified month and year", Timestamp: base.Add(time.Minute)},
		{ID: "c", Kind: core.KindWorkbook, Month: 4, Year: 2024, Success: true, Bytes: 2048, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := repo.SaveRenderEvent(ctx, e); err != nil {
			t.Fatalf("SaveRenderEvent(%s) error = %v", e.ID, err)
		}
	}

	got, err := repo.ListRenderEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ListRenderEvents() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "c" || got[2].ID != "a" {
		t.Errorf("order = %s,%s,%s, want newest first", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[1].Success || got[1].Error == "" {
		t.Errorf("failed event round trip = %+v", got[1])
	}
	if got[2].Bytes != 1024 || got[2].DurationMs != 12 || got[2].Kind != core.KindBar {
		t.Errorf("event a round trip = %+v", got[2])
	}
	if !got[2].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", got[2].Timestamp, base)
	}

	limited, err := repo.ListRenderEvents(ctx, 1)
	if err != nil {
		t.Fatalf("ListRenderEvents(1) error = %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("ListRenderEvents(1) = %+v", limited)
	}
}

func TestSaveRenderEventIgnoresDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	e := core.RenderEvent{ID: "dup", Kind: core.KindBar, Month: 1, Year: 2024, Timestamp: time.Now()}

	for i := 0; i < 2; i++ {
		if err := repo.SaveRenderEvent(ctx, e); err != nil {
			t.Fatalf("SaveRenderEvent() attempt %d error = %v", i+1, err)
		}
	}

	n, err := repo.CountRenderEvents(ctx)
	if err != nil {
		t.Fatalf("CountRenderEvents() error = %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultHistoryLimit},
		{-3, DefaultHistoryLimit},
		{10, 10},
		{MaxHistoryLimit, MaxHistoryLimit},
		{MaxHistoryLimit + 1, MaxHistoryLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "m.db")
	for i := 0; i < 2; i++ {
		if err := RunMigrations(dbPath); err != nil {
			t.Fatalf("RunMigrations() run %d error = %v", i+1, err)
		}
	}
}
