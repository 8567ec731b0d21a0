package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// clean strips whitespace and the single quotes OpenSky wraps every field in
func clean(s string) string {
	return strings.Trim(strings.TrimSpace(s), "'\"")
}

// ImportAircraftCSV loads an OpenSky-style aircraft database export
// (icao24, registration, manufacturername, model, typecode, operator ...).
// Columns are matched by header name; rows without icao24 are skipped.
func (s *Store) ImportAircraftCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(clean(name))] = i
	}
	icaoCol, ok := cols["icao24"]
	if !ok {
		return 0, fmt.Errorf("missing icao24 column")
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return clean(row[i])
	}

	var (
		batch    []AircraftRecord
		imported int
	)
	flush := func() error {
		if err := s.UpsertAircraft(batch); err != nil {
			return err
		}
		imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if icaoCol >= len(row) || clean(row[icaoCol]) == "" {
			continue
		}

		batch = append(batch, AircraftRecord{
			ICAO:         clean(row[icaoCol]),
			Registration: field(row, "registration"),
			TypeCode:     field(row, "typecode"),
			Manufacturer: field(row, "manufacturername"),
			Model:        field(row, "model"),
			Operator:     field(row, "operator"),
		})
		if len(batch) >= 1000 {
			if err := flush(); err != nil {
				return imported, err
			}
		}
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}
