package sqlitelog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
	_ "modernc.org/sqlite"
)

var _ fetchlog.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS fetch_records (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	method TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	content_type TEXT,
	bytes INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	challenged BOOLEAN NOT NULL,
	challenge_src TEXT,
	created_at DATETIME NOT NULL,
	error TEXT
);
`

// New creates a SQLite-backed fetchlog.Backend.
func New(dsn string) (fetchlog.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitelog: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitelog: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, rec *fetchlog.Record) error {
	query := `
	INSERT INTO fetch_records (
		id, url, method, status_code, content_type, bytes, duration_ms, challenged, challenge_src, created_at, error
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := b.db.ExecContext(ctx, query,
		rec.ID,
		rec.URL,
		rec.Method,
		rec.StatusCode,
		rec.ContentType,
		rec.Bytes,
		rec.Duration.Milliseconds(),
		rec.Challenged,
		rec.ChallengeSrc,
		rec.CreatedAt,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("sqlitelog: %w", err)
	}

	return nil
}

func (b *sqliteBackend) Query(ctx context.Context, filter fetchlog.Filter) ([]*fetchlog.Record, error) {
	query := `SELECT id, url, method, status_code, content_type, bytes, duration_ms, challenged, challenge_src, created_at, error FROM fetch_records WHERE 1=1`
	args := []any{}

	if filter.URL != "" {
		query += ` AND url = ?`
		args = append(args, filter.URL)
	}
	if filter.Challenged != nil {
		query += ` AND challenged = ?`
		args = append(args, *filter.Challenged)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlitelog: %w", err)
	}
	defer rows.Close()

	var records []*fetchlog.Record
	for rows.Next() {
		var r fetchlog.Record
		var durationMs int64

		err := rows.Scan(
			&r.ID, &r.URL, &r.Method, &r.StatusCode, &r.ContentType, &r.Bytes,
			&durationMs, &r.Challenged, &r.ChallengeSrc, &r.CreatedAt, &r.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlitelog: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitelog: %w", err)
	}

	return records, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
