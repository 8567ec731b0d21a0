package main

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"flight-tracker/internal/flightplan"
)

type GetFlightPlanInput struct {
	Callsign string `path:"callsign" minLength:"1" maxLength:"10" example:"SWA1234"`
}

type GetFlightPlanOutput struct {
	Body flightplan.FlightPlan
}

func (app *App) handleGetFlightPlan(ctx context.Context, input *GetFlightPlanInput) (*GetFlightPlanOutput, error) {
	if app.flightPlans == nil {
		return nil, huma.Error404NotFound("flight plan lookups are disabled")
	}

	plan, err := app.flightPlans.Lookup(ctx, input.Callsign)
	if err != nil {
		switch {
		case errors.Is(err, flightplan.ErrNotEligible):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, flightplan.ErrNotFound):
			return nil, huma.Error404NotFound(err.Error())
		case errors.Is(err, flightplan.ErrBudgetExhausted):
			return nil, huma.Error429TooManyRequests(err.Error())
		}
		app.logger.Error("failed to look up flight plan", "callsign", input.Callsign, "error", err)
		return nil, huma.Error500InternalServerError("failed to look up flight plan")
	}

	return &GetFlightPlanOutput{Body: *plan}, nil
}

type GetUsageOutput struct {
	Body flightplan.Usage
}

func (app *App) handleGetUsage(ctx context.Context, input *struct{}) (*GetUsageOutput, error) {
	if app.flightPlans == nil {
		return nil, huma.Error404NotFound("flight plan lookups are disabled")
	}
	return &GetUsageOutput{Body: app.flightPlans.Usage()}, nil
}
