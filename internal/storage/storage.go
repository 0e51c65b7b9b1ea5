// Package storage persists rendered Markdown documents as flat files.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrInvalidName is returned for file names that would leave the output
// directory.
var ErrInvalidName = errors.New("invalid file name")

// Writer persists one named Markdown document.
type Writer interface {
	Write(name, content string) error
}

// File describes a stored Markdown document.
type File struct {
	Name string
	Size int64
}

// FileStore writes Markdown files into a single output directory.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates the output directory if needed.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if ok, _ := afero.DirExists(fs, dir); ok {
		return &FileStore{fs: fs, dir: dir}, nil
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// Dir returns the output directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns where name is stored.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Write stores content under name, replacing any previous file.
func (s *FileStore) Write(name, content string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := afero.WriteFile(s.fs, s.Path(name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// List returns the Markdown files in the output directory, sorted by name.
func (s *FileStore) List() ([]File, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var files []File
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".md") {
			continue
		}
		files = append(files, File{Name: info.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Clean removes every Markdown file from the output directory and returns
// how many were removed. Other files are left alone.
func (s *FileStore) Clean() (int, error) {
	files, err := s.List()
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err := s.fs.Remove(s.Path(f.Name)); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", f.Name, err)
		}
	}
	return len(files), nil
}
