package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlightPlanRecord struct {
	Callsign     string `gorm:"primaryKey"`
	Origin       string
	Destination  string
	AircraftType string
	Status       string
	FetchedAt    time.Time `gorm:"index"`
}

// GetFlightPlan returns the cached plan for callsign if it was fetched
// within ttl
func (s *Store) GetFlightPlan(callsign string, ttl time.Duration, now time.Time) (*FlightPlanRecord, error) {
	var rec FlightPlanRecord
	err := s.db.Where("callsign = ? AND fetched_at >= ?", callsign, now.UTC().Add(-ttl)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flight plan %s: %w", callsign, err)
	}
	return &rec, nil
}

func (s *Store) SaveFlightPlan(rec FlightPlanRecord) error {
	rec.FetchedAt = rec.FetchedAt.UTC()
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save flight plan %s: %w", rec.Callsign, err)
	}
	return nil
}

// PruneFlightPlans deletes plans fetched before cutoff
func (s *Store) PruneFlightPlans(cutoff time.Time) (int64, error) {
	res := s.db.Where("fetched_at < ?", cutoff.UTC()).Delete(&FlightPlanRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune flight plans: %w", res.Error)
	}
	return res.RowsAffected, nil
}
