// storage.go - Flat-directory storage for uploaded images.
//
// Every asset lives directly in one pre-existing directory under a
// generated name. Uploads are streamed into a hidden temporary file and
// linked to their final name only once complete, so a rejected or failed
// upload never appears under a servable name.
package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const tempPattern = ".upload-*"

// ErrFileTooLarge is returned by Save when the stream exceeds the limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// DiskStore reads and writes assets in a single directory.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a store rooted at dir. The directory must already exist.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Dir returns the storage directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// isAssetName reports whether name can address a stored asset: a single
// path element that is not hidden.
func isAssetName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}

// Save streams r into a new asset called name, writing at most limit bytes.
// It returns ErrFileTooLarge if r holds more than limit bytes. An existing
// asset with the same name is never overwritten.
func (s *DiskStore) Save(name string, r io.Reader, limit int64) (int64, error) {
	if !isAssetName(name) {
		return 0, fmt.Errorf("invalid asset name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if err != nil {
		_ = tmp.Close()
		return n, fmt.Errorf("write upload: %w", err)
	}
	if n > limit {
		_ = tmp.Close()
		return n, ErrFileTooLarge
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}

	// CreateTemp uses 0600; stored assets are world-readable like any static file.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return n, fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Link(tmpName, filepath.Join(s.dir, name)); err != nil {
		return n, fmt.Errorf("commit upload: %w", err)
	}

	return n, nil
}

// Open returns a stored asset for reading. Anything that is not a regular,
// non-hidden file directly inside the directory reports fs.ErrNotExist.
func (s *DiskStore) Open(name string) (*os.File, fs.FileInfo, error) {
	if !isAssetName(name) {
		return nil, nil, fs.ErrNotExist
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}

	return f, info, nil
}

// Probe checks that the directory is present and writable by creating and
// removing a temporary file.
func (s *DiskStore) Probe() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}

	f, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Usage returns the number of stored assets and their total size.
// Temporary upload files are not counted.
func (s *DiskStore) Usage() (files int64, bytes int64, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if !isAssetName(e.Name()) || !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files++
		bytes += info.Size()
	}
	return files, bytes, nil
}
