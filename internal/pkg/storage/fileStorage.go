package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

var ErrInvalidName = errors.New("invalid file name")

// FileInfo describes one stored upload.
type FileInfo struct {
	Name    string
	ModTime time.Time
}

type FileStorage interface {
	Save(name string, data io.Reader) error
	Delete(name string) error
	Exists(name string) bool
	List() ([]FileInfo, error)
	Dir() string
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) (FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &fileStorage{basePath: basePath}, nil
}

// resolve only accepts bare file names so callers cannot escape the base dir.
func (s *fileStorage) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", ErrInvalidName
	}
	return filepath.Join(s.basePath, name), nil
}

// Save writes to a temp file first so a partially written upload is never
// visible under its final name.
func (s *fileStorage) Save(name string, data io.Reader) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), fullPath)
}

// Delete is idempotent; a missing file is not an error.
func (s *fileStorage) Delete(name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *fileStorage) Exists(name string) bool {
	fullPath, err := s.resolve(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// List returns regular files, skipping temp files of in-flight saves.
func (s *fileStorage) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name()[0] == '.' {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}

func (s *fileStorage) Dir() string {
	return s.basePath
}
