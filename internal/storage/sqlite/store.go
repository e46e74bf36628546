package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/models"
	"github.com/chiranjan-on-git/WhistleSafe/pkg/logger"
)

// Store is the SQLite-backed report store, for deployments that want the
// append atomicity delegated to a real database instead of the JSON file.
// It exposes the same append/read-all contract.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	logger.Info("SQLite report store initialized", zap.String("path", dbPath))
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		heading TEXT NOT NULL,
		body TEXT NOT NULL,
		location TEXT,
		date TEXT NOT NULL,
		score REAL NOT NULL,
		status TEXT NOT NULL,
		reason TEXT NOT NULL,
		breakdown TEXT,
		hash_id TEXT UNIQUE NOT NULL,
		file TEXT,
		entities TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
	CREATE INDEX IF NOT EXISTS idx_reports_hash ON reports(hash_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

func (s *Store) Append(ctx context.Context, report models.Report) error {
	breakdown, err := marshalNullable(report.Breakdown, len(report.Breakdown) > 0)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}
	entities, err := marshalNullable(report.Entities, len(report.Entities) > 0)
	if err != nil {
		return fmt.Errorf("failed to encode entities: %w", err)
	}

	var file sql.NullString
	if report.File != nil {
		file = sql.NullString{String: *report.File, Valid: true}
	}

	query := `
		INSERT INTO reports (category, heading, body, location, date, score, status, reason, breakdown, hash_id, file, entities)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		report.Category,
		report.Heading,
		report.Body,
		report.Location,
		report.Date,
		report.Score,
		report.Status,
		report.Reason,
		breakdown,
		report.HashID,
		file,
		entities,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	logger.Debug("Report appended", zap.String("hash_id", report.HashID))
	return nil
}

func (s *Store) ReadAll(ctx context.Context) ([]models.Report, error) {
	query := `
		SELECT category, heading, body, location, date, score, status, reason, breakdown, hash_id, file, entities
		FROM reports
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		var r models.Report
		var breakdown, file, entities sql.NullString

		err := rows.Scan(
			&r.Category,
			&r.Heading,
			&r.Body,
			&r.Location,
			&r.Date,
			&r.Score,
			&r.Status,
			&r.Reason,
			&breakdown,
			&r.HashID,
			&file,
			&entities,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		if breakdown.Valid {
			if err := json.Unmarshal([]byte(breakdown.String), &r.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to decode breakdown for %s: %w", r.HashID, err)
			}
		}
		if file.Valid {
			name := file.String
			r.File = &name
		}
		if entities.Valid {
			if err := json.Unmarshal([]byte(entities.String), &r.Entities); err != nil {
				return nil, fmt.Errorf("failed to decode entities for %s: %w", r.HashID, err)
			}
		}

		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

func marshalNullable(v interface{}, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
