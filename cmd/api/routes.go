package main

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	huma.Register(app.api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Summary:     "Ping health check",
		Description: "Check if the API is running",
		Tags:        []string{"health"},
	}, app.handlePing)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-observer",
		Method:      http.MethodGet,
		Path:        "/observer",
		Summary:     "Observer position and view window",
		Tags:        []string{"aircraft"},
	}, app.handleGetObserver)

	huma.Register(app.api, huma.Operation{
		OperationID: "list-aircraft",
		Method:      http.MethodGet,
		Path:        "/aircraft",
		Summary:     "List tracked aircraft",
		Description: "Aircraft inside the configured radius, nearest first",
		Tags:        []string{"aircraft"},
	}, app.handleListAircraft)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-aircraft-statistic",
		Method:      http.MethodGet,
		Path:        "/aircraft/{stat}",
		Summary:     "Get the closest, fastest or highest aircraft",
		Tags:        []string{"aircraft"},
	}, app.handleGetStatistic)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-frame",
		Method:      http.MethodGet,
		Path:        "/frame",
		Summary:     "Render a display frame",
		Description: "Renders the map, overhead or stats view as an image sized for the LED panel",
		Tags:        []string{"display"},
	}, app.handleGetFrame)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-flight-plan",
		Method:      http.MethodGet,
		Path:        "/flightplans/{callsign}",
		Summary:     "Look up the flight plan for a callsign",
		Tags:        []string{"flight plans"},
	}, app.handleGetFlightPlan)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-flight-plan-usage",
		Method:      http.MethodGet,
		Path:        "/usage",
		Summary:     "Flight plan API usage against its budgets",
		Tags:        []string{"flight plans"},
	}, app.handleGetUsage)
}
