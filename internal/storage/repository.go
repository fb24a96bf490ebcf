package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"wastechart/internal/core"
	"wastechart/internal/log"

	_ "modernc.org/sqlite"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// SQLiteRepository stores render events for the history endpoint.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveRenderEvent inserts an event. Redelivered events with a known ID are ignored.
func (r *SQLiteRepository) SaveRenderEvent(ctx context.Context, e core.RenderEvent) error {
	err := r.queries.InsertRenderEvent(ctx, InsertRenderEventParams{
		ID:         e.ID,
		Kind:       string(e.Kind),
		Month:      int64(e.Month),
		Year:       int64(e.Year),
		Success:    e.Success,
		Error:      e.Error,
		Bytes:      int64(e.Bytes),
		DurationMs: e.DurationMs,
		CreatedAt:  e.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert render event: %w", err)
	}

	r.logger.DebugContext(ctx, "Render event saved",
		log.FieldEventID, e.ID,
		log.FieldKind, e.Kind)
	return nil
}

// ListRenderEvents returns the newest events first. limit is clamped to
// [1, MaxHistoryLimit]; zero or negative selects DefaultHistoryLimit.
func (r *SQLiteRepository) ListRenderEvents(ctx context.Context, limit int) ([]core.RenderEvent, error) {
	rows, err := r.queries.ListRenderEvents(ctx, int64(ClampLimit(limit)))
	if err != nil {
		return nil, fmt.Errorf("list render events: %w", err)
	}

	events := make([]core.RenderEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, core.RenderEvent{
			ID:         row.ID,
			Kind:       core.RenderKind(row.Kind),
			Month:      int(row.Month),
			Year:       int(row.Year),
			Success:    row.Success,
			Error:      row.Error,
			Bytes:      int(row.Bytes),
			DurationMs: row.DurationMs,
			Timestamp:  row.CreatedAt,
		})
	}
	return events, nil
}

func (r *SQLiteRepository) CountRenderEvents(ctx context.Context) (int64, error) {
	n, err := r.queries.CountRenderEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("count render events: %w", err)
	}
	return n, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}
