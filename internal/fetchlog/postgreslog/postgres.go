package postgreslog

import (
	"context"
	"fmt"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ fetchlog.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS fetch_records (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	method TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	content_type TEXT,
	bytes BIGINT NOT NULL,
	duration_ms BIGINT NOT NULL,
	challenged BOOLEAN NOT NULL,
	challenge_src TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	error TEXT
);
`

// New creates a Postgres-backed fetchlog.Backend.
func New(ctx context.Context, dsn string) (fetchlog.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgreslog: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgreslog: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgreslog: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, rec *fetchlog.Record) error {
	query := `
	INSERT INTO fetch_records (
		id, url, method, status_code, content_type, bytes, duration_ms, challenged, challenge_src, created_at, error
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := b.pool.Exec(ctx, query,
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
		return fmt.Errorf("postgreslog: %w", err)
	}

	return nil
}

func (b *postgresBackend) Query(ctx context.Context, filter fetchlog.Filter) ([]*fetchlog.Record, error) {
	query := `SELECT id, url, method, status_code, content_type, bytes, duration_ms, challenged, challenge_src, created_at, error FROM fetch_records WHERE 1=1`
	args := []any{}
	param := 1

	if filter.URL != "" {
		query += fmt.Sprintf(` AND url = $%d`, param)
		args = append(args, filter.URL)
		param++
	}
	if filter.Challenged != nil {
		query += fmt.Sprintf(` AND challenged = $%d`, param)
		args = append(args, *filter.Challenged)
		param++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, param)
		args = append(args, *filter.Since)
		param++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, param)
		args = append(args, filter.Limit)
		param++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, param)
		args = append(args, filter.Offset)
		param++
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgreslog: %w", err)
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
			return nil, fmt.Errorf("postgreslog: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgreslog: %w", err)
	}

	return records, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
