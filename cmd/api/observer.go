package main

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type GetObserverOutput struct {
	Body struct {
		Latitude      float64  `json:"latitude" example:"27.9506"`
		Longitude     float64  `json:"longitude" example:"-82.4572"`
		ElevationFeet *float64 `json:"elevationFeet,omitempty" doc:"Ground elevation when known"`
		Timezone      string   `json:"timezone" example:"America/New_York"`
		RadiusMiles   float64  `json:"radiusMiles"`
		Zoom          float64  `json:"zoom"`
		Width         int      `json:"width"`
		Height        int      `json:"height"`
	}
}

// handleGetObserver describes the observer and the projected view window
func (app *App) handleGetObserver(ctx context.Context, input *struct{}) (*GetObserverOutput, error) {
	if app.observer == nil {
		return nil, huma.Error404NotFound("observer not resolved")
	}

	w := app.tracker.Window()
	resp := &GetObserverOutput{}
	resp.Body.Latitude = app.observer.Position.Latitude
	resp.Body.Longitude = app.observer.Position.Longitude
	if app.observer.HasElevation {
		elevation := app.observer.ElevationFeet
		resp.Body.ElevationFeet = &elevation
	}
	resp.Body.Timezone = app.observer.Timezone
	resp.Body.RadiusMiles = w.RadiusMiles
	resp.Body.Zoom = w.Zoom
	resp.Body.Width = w.Width
	resp.Body.Height = w.Height
	return resp, nil
}
