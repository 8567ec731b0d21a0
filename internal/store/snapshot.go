package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRecord holds the last good payload for a key
type SnapshotRecord struct {
	Name    string `gorm:"primaryKey"`
	Payload []byte
	SavedAt time.Time
}

func (s *Store) SaveSnapshot(key string, payload []byte, now time.Time) error {
	rec := SnapshotRecord{Name: key, Payload: payload, SavedAt: now.UTC()}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// LoadSnapshot returns the payload stored under key and when it was saved
func (s *Store) LoadSnapshot(key string) ([]byte, time.Time, error) {
	var rec SnapshotRecord
	err := s.db.Where("name = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return rec.Payload, rec.SavedAt, nil
}
