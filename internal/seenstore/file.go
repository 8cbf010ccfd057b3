package seenstore

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
)

// File persists fingerprints one per line. Writes go to a temp file in the
// same directory followed by an atomic rename, and an advisory flock keeps
// individual reads and writes from tearing each other. The lock is per call,
// not per cycle: two processes interleaving Load and Save race on the window
// between them and the later Save wins. Cycles within one process are
// serialized by the caller. The file backend has no timestamps, so the
// retention window does not apply to it.
type File struct {
	path string
	lock *flock.Flock
}

func OpenFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("seen file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create seen directory: %w", err)
	}

	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

func (f *File) Load(_ context.Context) (Set, error) {
	if err := f.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock seen file: %w", err)
	}
	defer f.lock.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("open seen file: %w", err)
	}
	defer file.Close()

	set := Set{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		set.Add(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seen file: %w", err)
	}

	return set, nil
}

func (f *File) Save(_ context.Context, set Set) error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock seen file: %w", err)
	}
	defer f.lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".seen-*")
	if err != nil {
		return fmt.Errorf("create temp seen file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// Sorted output keeps the file diffable between cycles.
	fingerprints := make([]string, 0, set.Len())
	for fp := range set {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)

	w := bufio.NewWriter(tmp)
	for _, fp := range fingerprints {
		if _, err := w.WriteString(fp + "\n"); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write seen file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush seen file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp seen file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace seen file: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	_ = os.Remove(f.lock.Path())
	return nil
}
