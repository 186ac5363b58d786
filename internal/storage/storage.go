// Package storage keeps exported quotation documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadName is returned for object names that are empty, absolute or that
// climb out of the store.
var ErrBadName = errors.New("storage: invalid object name")

// Sink stores exported artifacts. Names are slash-separated keys such as
// "<id>/<file>"; Put returns where the artifact was put.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, `\`) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || strings.HasPrefix(part, ".") {
			return fmt.Errorf("%w: %q", ErrBadName, name)
		}
	}
	return nil
}

// LocalSink writes artifacts into a directory.
type LocalSink struct {
	Dir string
}

// NewLocalSink creates dir if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &LocalSink{Dir: dir}, nil
}

// Put writes data to Dir/name, replacing any existing file. The file is
// written under a temporary name first so readers never see a partial PDF.
func (s *LocalSink) Put(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, filepath.FromSlash(name))
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return path, nil
}

// Delete removes Dir/name and any directories it leaves empty below Dir.
// A missing file is not an error.
func (s *LocalSink) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	path := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	root := filepath.Clean(s.Dir)
	for dir := filepath.Dir(path); dir != root; dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}
