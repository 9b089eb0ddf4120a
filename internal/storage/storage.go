package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Well-known keys for the persisted session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

type entry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (entry) TableName() string { return "kv" }

// Store is a persistent key-value bridge. Values are JSON-encoded strings;
// writing a nil value deletes the key. Reads never fail hard: a missing key,
// an unparseable value or an untrusted key all leave the caller's default in
// place.
type Store struct {
	db        *gorm.DB
	log       *slog.Logger
	untrusted map[string]bool
}

type Option func(*Store)

// WithUntrustedKeys marks keys whose persisted value is ignored on read. Used
// to keep a stale session from silently resurrecting at cold start.
func WithUntrustedKeys(keys ...string) Option {
	return func(s *Store) {
		for _, k := range keys {
			s.untrusted[k] = true
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate state db: %w", err)
	}

	s := &Store{db: db, log: slog.Default(), untrusted: make(map[string]bool)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Read decodes the stored value for key into out. It reports whether out was
// populated; on false the caller keeps its default.
func (s *Store) Read(key string, out any) bool {
	if s.untrusted[key] {
		return false
	}

	var e entry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("state read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(e.Value), out); err != nil {
		s.log.Error("state value is not valid JSON, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

// Write stores the JSON encoding of v under key. A nil v removes the key
// instead of persisting a sentinel.
func (s *Store) Write(key string, v any) error {
	if v == nil {
		return s.Delete(key)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	e := entry{Key: key, Value: string(data)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error; err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
