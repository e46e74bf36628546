package attachment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("attachment not found")

// Store persists uploaded blobs under a dedicated directory, named
// <fingerprint>_<originalName> so that concurrent submissions can never
// collide on a filename.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the blob under its derived name and returns that name for
// embedding in the report record. A write failure is fatal for the
// submission; the caller must not proceed with a half-saved attachment.
func (s *Store) Save(fingerprint, originalName string, r io.Reader) (string, error) {
	storedName := fingerprint + "_" + filepath.Base(originalName)

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to flush attachment: %w", err)
	}

	return storedName, nil
}

// Open streams back a previously stored blob.
func (s *Store) Open(storedName string) (io.ReadCloser, error) {
	path, err := s.Path(storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return f, nil
}

// Path resolves a stored name inside the uploads directory, rejecting names
// that would escape it.
func (s *Store) Path(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) {
		return "", fmt.Errorf("invalid attachment name %q", storedName)
	}
	path := filepath.Join(s.dir, storedName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to stat attachment: %w", err)
	}
	return path, nil
}

// OriginalName strips the fingerprint prefix from a stored name, recovering
// the filename the submitter uploaded.
func OriginalName(storedName string) string {
	if i := strings.Index(storedName, "_"); i >= 0 {
		return storedName[i+1:]
	}
	return storedName
}
