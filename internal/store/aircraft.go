package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup has no matching row
var ErrNotFound = errors.New("not found")

// AircraftRecord is an entry of the offline aircraft registry
type AircraftRecord struct {
	ICAO         string `gorm:"primaryKey"`
	Registration string `gorm:"index"`
	TypeCode     string
	Manufacturer string
	Model        string
	Operator     string
	UpdatedAt    time.Time
}

// LookupAircraft finds a registry entry by ICAO hex address (case-insensitive)
func (s *Store) LookupAircraft(icao string) (*AircraftRecord, error) {
	var rec AircraftRecord
	err := s.db.Where("icao = ?", strings.ToUpper(icao)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup aircraft %s: %w", icao, err)
	}
	return &rec, nil
}

// UpsertAircraft inserts or replaces registry entries in batches
func (s *Store) UpsertAircraft(records []AircraftRecord) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		records[i].ICAO = strings.ToUpper(records[i].ICAO)
	}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(records, 500).Error
	if err != nil {
		return fmt.Errorf("upsert aircraft: %w", err)
	}
	return nil
}

func (s *Store) CountAircraft() (int64, error) {
	var n int64
	if err := s.db.Model(&AircraftRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count aircraft: %w", err)
	}
	return n, nil
}
