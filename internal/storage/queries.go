package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type RenderEventRow struct {
	ID         string
	Kind       string
	Month      int64
	Year       int64
	Success    bool
	Error      string
	Bytes      int64
	DurationMs int64
	CreatedAt  time.Time
}

const insertRenderEvent = `
INSERT INTO render_events (id, kind, month, year, success, error, bytes, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`

type InsertRenderEventParams struct {
	ID         string
	Kind       string
	Month      int64
	Year       int64
	Success    bool
	Error      string
	Bytes      int64
	DurationMs int64
	CreatedAt  time.Time
}

func (q *Queries) InsertRenderEvent(ctx context.Context, arg InsertRenderEventParams) error {
	_, err := q.db.ExecContext(ctx, insertRenderEvent,
		arg.ID,
		arg.Kind,
		arg.Month,
		arg.Year,
		arg.Success,
		arg.Error,
		arg.Bytes,
		arg.DurationMs,
		arg.CreatedAt,
	)
	return err
}

const listRenderEvents = `
SELECT id, kind, month, year, success, error, bytes, duration_ms, created_at
FROM render_events
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListRenderEvents(ctx context.Context, limit int64) ([]RenderEventRow, error) {
	rows, err := q.db.QueryContext(ctx, listRenderEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RenderEventRow
	for rows.Next() {
		var i RenderEventRow
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Month,
			&i.Year,
			&i.Success,
			&i.Error,
			&i.Bytes,
			&i.DurationMs,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRenderEvents = `SELECT COUNT(*) FROM render_events`

func (q *Queries) CountRenderEvents(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRenderEvents)
	var count int64
	err := row.Scan(&count)
	return count, err
}
