package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"flight-tracker/internal/display"
	"flight-tracker/internal/tracker"
	"flight-tracker/internal/types"
)

// AircraftResponse is the API view of a tracked aircraft
type AircraftResponse struct {
	ICAO            string    `json:"icao" example:"A1B2C3"`
	Callsign        string    `json:"callsign" example:"SWA1234"`
	Registration    string    `json:"registration,omitempty" example:"N8642E"`
	AircraftType    string    `json:"aircraftType" example:"B738"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	AltitudeFeet    float64   `json:"altitudeFeet"`
	AltitudeMeters  float64   `json:"altitudeMeters"`
	OnGround        bool      `json:"onGround"`
	SpeedKnots      float64   `json:"speedKnots"`
	SpeedMph        float64   `json:"speedMph"`
	HeadingDegrees  float64   `json:"headingDegrees"`
	HeadingCardinal string    `json:"headingCardinal" example:"NE"`
	DistanceMiles   float64   `json:"distanceMiles"`
	BearingDegrees  float64   `json:"bearingDegrees" doc:"Direction from the observer, clockwise from north"`
	Color           string    `json:"color" example:"#ff7800" doc:"Altitude color of the map marker"`
	LastSeen        time.Time `json:"lastSeen"`
}

func toAircraftResponse(ac types.Aircraft) AircraftResponse {
	return AircraftResponse{
		ICAO:            ac.ICAO,
		Callsign:        ac.Callsign,
		Registration:    ac.Registration,
		AircraftType:    ac.AircraftType,
		Latitude:        ac.Position.Latitude,
		Longitude:       ac.Position.Longitude,
		AltitudeFeet:    ac.Altitude.Feet,
		AltitudeMeters:  ac.Altitude.Meters,
		OnGround:        ac.OnGround,
		SpeedKnots:      ac.Speed.Knots,
		SpeedMph:        ac.Speed.Mph,
		HeadingDegrees:  ac.Heading.Degrees,
		HeadingCardinal: ac.Heading.Cardinal,
		DistanceMiles:   ac.DistanceMiles,
		BearingDegrees:  ac.BearingDegrees,
		Color:           fmt.Sprintf("#%02x%02x%02x", ac.Color.R, ac.Color.G, ac.Color.B),
		LastSeen:        ac.LastSeen,
	}
}

type ListAircraftOutput struct {
	Body struct {
		Count    int                `json:"count"`
		Aircraft []AircraftResponse `json:"aircraft"`
	}
}

func (app *App) handleListAircraft(ctx context.Context, input *struct{}) (*ListAircraftOutput, error) {
	aircraft := app.tracker.Aircraft()

	resp := &ListAircraftOutput{}
	resp.Body.Count = len(aircraft)
	resp.Body.Aircraft = make([]AircraftResponse, 0, len(aircraft))
	for _, ac := range aircraft {
		resp.Body.Aircraft = append(resp.Body.Aircraft, toAircraftResponse(ac))
	}
	return resp, nil
}

type GetStatisticInput struct {
	Stat string `path:"stat" enum:"closest,fastest,highest" doc:"Statistic to report"`
}

type GetStatisticOutput struct {
	Body AircraftResponse
}

func (app *App) handleGetStatistic(ctx context.Context, input *GetStatisticInput) (*GetStatisticOutput, error) {
	stat, err := display.ParseStat(input.Stat)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	ac, err := app.statistic(stat)
	if err != nil {
		if errors.Is(err, tracker.ErrNoAircraft) {
			return nil, huma.Error404NotFound("no aircraft tracked")
		}
		app.logger.Error("failed to get statistic", "stat", stat, "error", err)
		return nil, huma.Error500InternalServerError("failed to get statistic")
	}

	return &GetStatisticOutput{Body: toAircraftResponse(ac)}, nil
}

func (app *App) statistic(stat display.Stat) (types.Aircraft, error) {
	switch stat {
	case display.StatFastest:
		return app.tracker.Fastest()
	case display.StatHighest:
		return app.tracker.Highest()
	default:
		return app.tracker.Closest()
	}
}
