// Package journal keeps the raw `go test -json` stream of a run so it can be
// narrated again later with `specdox format`.
package journal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/specdox/internal/filelock"
)

// LatestName is the symlink pointing at the most recent journal.
const LatestName = "latest.jsonl"

// Journal buffers a run's events. It implements io.Writer so it can sit
// behind an io.TeeReader.
type Journal struct {
	dir string
	id  string
	now func() time.Time
	buf bytes.Buffer
}

// New creates a journal that will be saved into dir.
func New(dir string) *Journal {
	return &Journal{
		dir: dir,
		id:  uuid.NewString()[:8],
		now: time.Now,
	}
}

// ID identifies the run in the journal file name.
func (j *Journal) ID() string {
	return j.id
}

// Write appends raw event bytes.
func (j *Journal) Write(p []byte) (int, error) {
	return j.buf.Write(p)
}

// Save writes the journal as run-<timestamp>-<id>.jsonl and points
// latest.jsonl at it. The journal directory is locked while doing so, so
// concurrent runs never leave latest.jsonl dangling.
func (j *Journal) Save(ctx context.Context) (string, error) {
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create journal directory: %w", err)
	}

	lock := filelock.NewFileLock(filepath.Join(j.dir, ".lock"))
	if err := lock.Lock(ctx); err != nil {
		return "", err
	}
	defer lock.Unlock()

	name := fmt.Sprintf("run-%s-%s.jsonl", j.now().Format("20060102-150405"), j.id)
	path := filepath.Join(j.dir, name)
	if err := filelock.AtomicWrite(path, j.buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write journal: %w", err)
	}

	latest := filepath.Join(j.dir, LatestName)
	if _, err := os.Lstat(latest); err == nil {
		if err := os.Remove(latest); err != nil {
			return path, fmt.Errorf("failed to remove old %s: %w", LatestName, err)
		}
	}
	if err := os.Symlink(name, latest); err != nil {
		return path, fmt.Errorf("failed to link %s: %w", LatestName, err)
	}

	return path, nil
}

// Latest returns the path of latest.jsonl inside dir.
func Latest(dir string) string {
	return filepath.Join(dir, LatestName)
}
