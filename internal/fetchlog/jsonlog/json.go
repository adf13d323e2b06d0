package jsonlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/FranksOps/shoplens/internal/fetchlog"
)

var _ fetchlog.Backend = (*jsonBackend)(nil)

type jsonBackend struct {
	mu   sync.Mutex
	file *os.File
}

// New creates an NDJSON-backed fetchlog.Backend appending to filePath.
func New(filePath string) (fetchlog.Backend, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("jsonlog: %w", err)
	}

	return &jsonBackend{file: f}, nil
}

func (b *jsonBackend) Save(ctx context.Context, rec *fetchlog.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("jsonlog: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("jsonlog: %w", err)
	}

	return nil
}

func (b *jsonBackend) Query(ctx context.Context, filter fetchlog.Filter) ([]*fetchlog.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("jsonlog: %w", err)
	}
	defer func() {
		// Restore the pointer so later appends land at the end.
		_, _ = b.file.Seek(0, io.SeekEnd)
	}()

	scanner := bufio.NewScanner(b.file)

	// NDJSON has no query engine; read everything and filter in memory.
	var matched []*fetchlog.Record

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var r fetchlog.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("jsonlog: %w", err)
		}

		if filter.URL != "" && r.URL != filter.URL {
			continue
		}
		if filter.Challenged != nil && r.Challenged != *filter.Challenged {
			continue
		}
		if filter.Since != nil && r.CreatedAt.Before(*filter.Since) {
			continue
		}

		matched = append(matched, &r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jsonlog: %w", err)
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

func (b *jsonBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
