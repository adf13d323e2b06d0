package csvlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
)

var _ fetchlog.Backend = (*csvBackend)(nil)

type csvBackend struct {
	mu   sync.Mutex
	file *os.File
}

// columns defines the CSV column order.
var columns = []string{
	"id",
	"url",
	"method",
	"status_code",
	"content_type",
	"bytes",
	"duration_ms",
	"challenged",
	"challenge_src",
	"created_at",
	"error",
}

// New creates a CSV-backed fetchlog.Backend.
func New(filePath string) (fetchlog.Backend, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("csvlog: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("csvlog: %w", err)
	}

	// Write the header row once on a fresh file.
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(columns); err != nil {
			f.Close()
			return nil, fmt.Errorf("csvlog: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("csvlog: %w", err)
		}
	}

	return &csvBackend{file: f}, nil
}

func (b *csvBackend) Save(ctx context.Context, rec *fetchlog.Record) error {
	row := []string{
		rec.ID,
		rec.URL,
		rec.Method,
		strconv.Itoa(rec.StatusCode),
		rec.ContentType,
		strconv.FormatInt(rec.Bytes, 10),
		strconv.FormatInt(rec.Duration.Milliseconds(), 10),
		strconv.FormatBool(rec.Challenged),
		rec.ChallengeSrc,
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.Error,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("csvlog: %w", err)
	}

	w := csv.NewWriter(b.file)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("csvlog: %w", err)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("csvlog: %w", err)
	}

	return nil
}

func (b *csvBackend) Query(ctx context.Context, filter fetchlog.Filter) ([]*fetchlog.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("csvlog: %w", err)
	}
	defer func() {
		_, _ = b.file.Seek(0, io.SeekEnd)
	}()

	r := csv.NewReader(b.file)

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return []*fetchlog.Record{}, nil
		}
		return nil, fmt.Errorf("csvlog: %w", err)
	}

	var matched []*fetchlog.Record

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvlog: %w", err)
		}

		if len(row) != len(columns) {
			continue // skip malformed rows
		}

		statusCode, _ := strconv.Atoi(row[3])
		bytes, _ := strconv.ParseInt(row[5], 10, 64)
		durationMs, _ := strconv.ParseInt(row[6], 10, 64)
		challenged, _ := strconv.ParseBool(row[7])
		createdAt, _ := time.Parse(time.RFC3339Nano, row[9])

		rec := &fetchlog.Record{
			ID:           row[0],
			URL:          row[1],
			Method:       row[2],
			StatusCode:   statusCode,
			ContentType:  row[4],
			Bytes:        bytes,
			Duration:     time.Duration(durationMs) * time.Millisecond,
			Challenged:   challenged,
			ChallengeSrc: row[8],
			CreatedAt:    createdAt,
			Error:        row[10],
		}

		if filter.URL != "" && rec.URL != filter.URL {
			continue
		}
		if filter.Challenged != nil && rec.Challenged != *filter.Challenged {
			continue
		}
		if filter.Since != nil && rec.CreatedAt.Before(*filter.Since) {
			continue
		}

		matched = append(matched, rec)
	}

	// Newest first, matching the SQL backends.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*fetchlog.Record{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

func (b *csvBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
