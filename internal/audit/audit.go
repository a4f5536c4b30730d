// Package audit persists per-execution diagnostic records to SQLite.
// Uses modernc.org/sqlite (pure Go, no CGO) through the glebarez/sqlite GORM
// driver, the same way the rest of the stack avoids CGO.
//
// This store is the only place where unredacted host error text is kept; the
// caller-facing result always carries the sanitized form. Writes are
// best-effort: an audit failure is logged and never overrides the primary
// execution result.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one bridge execution, as stored.
type Record struct {
	ID         uint      `gorm:"primaryKey"`
	CreatedAt  time.Time `gorm:"index"`
	Operation  string    `gorm:"index"`
	Outcome    string    // "success", "host_failure", "timeout", "malformed_result", "spawn_failure"
	ExitCode   int
	DurationMS int64
	WorkAreaID string
	Error      string // Unredacted host error text.
}

// Store is a SQLite-backed audit log.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open creates (or opens) the audit database at path, creating parent
// directories as needed, and migrates the schema.
func Open(path string, slogger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("audit database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating audit db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=journal_mode(WAL)"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audit db: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating audit schema: %w", err)
	}

	return &Store{db: db, logger: slogger}, nil
}

// Write stores one execution record. Best-effort: failures are logged only.
func (s *Store) Write(rec Record) {
	if s == nil {
		return
	}
	if err := s.db.Create(&rec).Error; err != nil {
		s.logger.Error("audit write failed",
			slog.String("operation", rec.Operation),
			slog.String("error", err.Error()),
		)
	}
}

// Recent returns up to limit records, newest first. Used by diagnostics.
func (s *Store) Recent(limit int) ([]Record, error) {
	var recs []Record
	err := s.db.Order("id desc").Limit(limit).Find(&recs).Error
	return recs, err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
