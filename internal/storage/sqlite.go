package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/asteroid-belt/gatewise/internal/models"
)

// SQLite is a KV backed by a single-table SQLite database.
// It uses the pure-Go driver so no cgo toolchain is needed.
type SQLite struct {
	*gorm.DB
	closed atomic.Bool
}

// Config holds database configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
	BusyTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
		BusyTimeout: 5 * time.Second,
	}
}

// NewSQLite opens (creating if needed) the database at cfg.Path and migrates it.
func NewSQLite(cfg Config) (*SQLite, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// DELETE journal mode: WAL has visibility issues with the pure-Go driver.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLite{DB: db}, nil
}

// Get implements KV.
func (s *SQLite) Get(key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrClosed
	}
	var doc models.Document
	err := s.Where("key = ?", key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get document %q: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

// Put implements KV.
func (s *SQLite) Put(key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	doc := models.Document{Key: key, Value: value}
	err := s.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (s *SQLite) Delete(key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.DB.Delete(&models.Document{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
