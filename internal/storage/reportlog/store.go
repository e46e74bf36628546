package reportlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/models"
	"github.com/chiranjan-on-git/WhistleSafe/pkg/logger"
)

// ErrCorruptStore marks a report file whose root is not a JSON array or
// whose content cannot be parsed. Existing data is never discarded to
// "recover" from this.
var ErrCorruptStore = errors.New("report store is corrupted")

// Store keeps every report in a single pretty-printed JSON array file, the
// system of record for the whole collection. Each append rewrites the file,
// so all mutations are serialized behind one mutex and the new content is
// swapped in atomically via a temp file and rename. Without the lock, two
// concurrent appends could interleave their read-modify-write cycles and
// lose a record.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	logger.Info("Report store initialized", zap.String("path", path))
	return &Store{path: path}, nil
}

// Append adds one immutable record to the durable sequence.
func (s *Store) Append(ctx context.Context, report models.Report) error {
	// Cancellation is deliberately not consulted past this point; a partial
	// write is worse than a slow completion.
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load()
	if err != nil {
		return err
	}

	reports = append(reports, report)

	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace report store: %w", err)
	}

	logger.Debug("Report appended",
		zap.String("hash_id", report.HashID),
		zap.Int("total", len(reports)),
	)
	return nil
}

// ReadAll returns the full ordered sequence. A missing or empty file is an
// empty sequence, not an error.
func (s *Store) ReadAll(ctx context.Context) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]models.Report, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Report{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Report{}, nil
	}

	var reports []models.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}

	return reports, nil
}
