package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists the offline aircraft database, cached flight plans and the
// last good feed snapshot in a single SQLite file
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for tests.
func Open(path string, debug bool) (*Store, error) {
	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite has a single writer and every ":memory:" connection is its own database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&AircraftRecord{}, &FlightPlanRecord{}, &SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
