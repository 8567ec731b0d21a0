package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flight-tracker/internal/geo"
	"flight-tracker/internal/providers/usgs"
	"flight-tracker/internal/timezone"
	"flight-tracker/internal/types"
)

// Service resolves details of the observer's position
type Service interface {
	// GetObserver looks up the time zone and, when withElevation is set, the
	// ground elevation of position
	GetObserver(ctx context.Context, position geo.Coordinate, withElevation bool) (*types.Observer, error)
}

// ElevationProvider defines the interface for elevation data providers
type ElevationProvider interface {
	GetElevationPoint(ctx context.Context, latitude, longitude float64) (*usgs.ElevationPointAPIResponse, error)
}

type locationService struct {
	elevationProvider ElevationProvider
	timezoneService   timezone.Service
	logger            *slog.Logger
}

// NewLocationService creates a location service with the USGS client and the
// shared timezone finder
func NewLocationService(logger *slog.Logger) (Service, error) {
	tzSvc, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create timezone service: %w", err)
	}
	return NewLocationServiceWithProviders(usgs.NewClient(logger), tzSvc, logger), nil
}

// NewLocationServiceWithProviders creates a new location service with custom providers
// This is useful for testing with mock providers
func NewLocationServiceWithProviders(
	elevationProvider ElevationProvider,
	timezoneService timezone.Service,
	logger *slog.Logger,
) Service {
	return &locationService{
		elevationProvider: elevationProvider,
		timezoneService:   timezoneService,
		logger:            logger.With("component", "location-service"),
	}
}

// GetObserver runs the elevation and time zone lookups in parallel. A missing
// elevation is logged and leaves HasElevation unset; a time zone failure is
// an error.
func (s *locationService) GetObserver(ctx context.Context, position geo.Coordinate, withElevation bool) (*types.Observer, error) {
	if err := position.Validate(); err != nil {
		return nil, err
	}

	var (
		wg            sync.WaitGroup
		elevationResp *usgs.ElevationPointAPIResponse
		elevationErr  error
		loc           *time.Location
		tzErr         error
	)

	if withElevation {
		wg.Add(1)
		go func() {
			defer wg.Done()
			elevationResp, elevationErr = s.elevationProvider.GetElevationPoint(ctx, position.Latitude, position.Longitude)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		loc, tzErr = s.timezoneService.Location(position.Latitude, position.Longitude)
	}()

	wg.Wait()

	if tzErr != nil {
		return nil, fmt.Errorf("failed to determine timezone: %w", tzErr)
	}

	observer := &types.Observer{
		Position: position,
		Timezone: loc.String(),
		Location: loc,
	}

	if withElevation {
		switch {
		case elevationErr != nil:
			s.logger.Warn("failed to get ground elevation", "position", position.String(), "error", elevationErr)
		case elevationResp == nil || !elevationResp.HasData():
			s.logger.Warn("no ground elevation data", "position", position.String())
		default:
			observer.ElevationFeet = elevationResp.Value
			observer.HasElevation = true
		}
	}

	s.logger.Debug("resolved observer",
		"position", position.String(),
		"timezone", observer.Timezone,
		"elevation_feet", observer.ElevationFeet,
	)

	return observer, nil
}
