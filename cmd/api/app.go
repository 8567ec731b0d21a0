package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"flight-tracker/internal/display"
	"flight-tracker/internal/flightplan"
	"flight-tracker/internal/render"
	"flight-tracker/internal/tracker"
	"flight-tracker/internal/types"
)

// Services are the dependencies the HTTP handlers use. FlightPlans is nil
// when flight plan lookups are disabled.
type Services struct {
	Observer    *types.Observer
	Tracker     tracker.Service
	FlightPlans flightplan.Service
	Display     *display.Controller
	Renderer    *render.Renderer
}

// App encapsulates application dependencies
type App struct {
	mux         *http.ServeMux
	api         huma.API
	logger      *slog.Logger
	observer    *types.Observer
	tracker     tracker.Service
	flightPlans flightplan.Service
	display     *display.Controller
	renderer    *render.Renderer
	now         func() time.Time
}

// NewApp creates a new application with injected dependencies
func NewApp(logger *slog.Logger, services Services) *App {
	// Create standard library HTTP mux
	mux := http.NewServeMux()

	// Create Huma API with standard library adapter
	config := huma.DefaultConfig("Flight Tracker API", "1.0.0")
	config.Info.Description = "Live ADS-B aircraft around an observer, rendered for LED matrix panels"
	config.Servers = []*huma.Server{
		{URL: "http://localhost:8080", Description: "Development server"},
	}

	app := newApp(humago.New(mux, config), logger, services)
	app.mux = mux

	logger.Info("application initialized")

	return app
}

// newApp registers routes on api; tests pass a humatest API
func newApp(api huma.API, logger *slog.Logger, services Services) *App {
	app := &App{
		api:         api,
		logger:      logger,
		observer:    services.Observer,
		tracker:     services.Tracker,
		flightPlans: services.FlightPlans,
		display:     services.Display,
		renderer:    services.Renderer,
		now:         time.Now,
	}

	// Register routes
	app.registerRoutes()

	return app
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (app *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
