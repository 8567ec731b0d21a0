package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flight-tracker/internal/config"
	"flight-tracker/internal/display"
	"flight-tracker/internal/flightplan"
	"flight-tracker/internal/location"
	"flight-tracker/internal/providers/skyaware"
	"flight-tracker/internal/render"
	"flight-tracker/internal/store"
	"flight-tracker/internal/tracker"
	"flight-tracker/internal/types"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger) // Set as default logger for the application

	window, err := cfg.ViewWindow()
	if err != nil {
		log.Fatalf("Invalid view window: %v", err)
	}
	colorizer, err := cfg.Colorizer()
	if err != nil {
		log.Fatalf("Invalid altitude colors: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.Database.Path, cfg.Database.Debug)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	importAircraftDatabase(db, cfg.Database.AircraftCSV, logger)

	locationSvc, err := location.NewLocationService(logger)
	if err != nil {
		log.Fatalf("Failed to create location service: %v", err)
	}
	observer, err := locationSvc.GetObserver(ctx, window.Center, cfg.Tracker.GroundElevation)
	if err != nil {
		logger.Warn("failed to resolve observer, using UTC", "error", err)
		observer = &types.Observer{Position: window.Center, Timezone: "UTC", Location: time.UTC}
	}

	opts := tracker.Options{
		Window:      window,
		Colorizer:   colorizer,
		StaleAfter:  cfg.Tracker.StaleAfter,
		ShowTrails:  cfg.Tracker.ShowTrails,
		TrailLength: cfg.Tracker.TrailLength,
	}
	if observer.HasElevation {
		opts.GroundElevationFeet = observer.ElevationFeet
	}

	trackerSvc := tracker.NewTrackerService(skyaware.NewClient(cfg.Tracker.SkyawareURL, logger), db, opts, logger)
	go func() {
		_ = tracker.NewPoller(trackerSvc, cfg.Tracker.UpdateInterval, logger).Run(ctx)
	}()

	var planSvc flightplan.Service
	if cfg.FlightPlan.Enabled {
		planSvc = flightplan.NewFlightPlanService(cfg, db, observer.Location, logger)
		go runFlightPlanJobs(ctx, planSvc, trackerSvc, cfg.FlightPlan, logger)
	}

	renderer, err := render.NewRenderer(window, cfg.Display.FontPath, fontPoints(cfg.Display.Height))
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	controller := display.NewController(display.Options{
		ProximityEnabled:  cfg.Proximity.Enabled,
		ProximityMiles:    cfg.Proximity.DistanceMiles,
		ProximityDuration: cfg.Proximity.Duration,
		StatDuration:      cfg.Display.StatDuration,
	}, logger)

	// Create app
	app := NewApp(logger, Services{
		Observer:    observer,
		Tracker:     trackerSvc,
		FlightPlans: planSvc,
		Display:     controller,
		Renderer:    renderer,
	})

	// Start server
	logger.Info("starting server", "addr", cfg.GetServerAddr())
	if err := app.Run(ctx, cfg.GetServerAddr()); err != nil {
		logger.Error("server failed", "error", err)
		log.Fatal(err)
	}
	logger.Info("server stopped")
}

// importAircraftDatabase loads the OpenSky CSV when the registry is empty
func importAircraftDatabase(db *store.Store, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	count, err := db.CountAircraft()
	if err != nil || count > 0 {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("failed to open aircraft database", "path", path, "error", err)
		return
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	n, err := db.ImportAircraftCSV(f)
	if err != nil {
		logger.Warn("failed to import aircraft database", "path", path, "error", err)
		return
	}
	logger.Info("imported aircraft database", "path", path, "records", n, "duration", time.Since(start))
}

// runFlightPlanJobs prunes expired cached plans and, when a prefetch
// interval is set, looks up plans for the airline flights currently in range
func runFlightPlanJobs(ctx context.Context, plans flightplan.Service, t tracker.Service, cfg config.FlightPlanConfig, logger *slog.Logger) {
	interval := cfg.PrefetchInterval
	if interval <= 0 {
		interval = cfg.CacheTTL
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := plans.PruneCache(); err != nil {
			logger.Warn("flight plan cache maintenance failed", "error", err)
		}
		if cfg.PrefetchInterval <= 0 {
			continue
		}

		aircraft := t.Aircraft()
		callsigns := make([]string, 0, len(aircraft))
		for _, ac := range aircraft {
			callsigns = append(callsigns, ac.Callsign)
		}
		found := plans.Prefetch(ctx, callsigns, cfg.MaxCallsPerRun)
		logger.Debug("prefetched flight plans", "aircraft", len(aircraft), "plans", found)
	}
}

// fontPoints scales the optional TrueType font with the panel height
func fontPoints(height int) float64 {
	if height <= 32 {
		return 6
	}
	return float64(height) / 6
}
