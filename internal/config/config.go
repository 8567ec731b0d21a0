package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"flight-tracker/internal/altitude"
	"flight-tracker/internal/geo"
	"flight-tracker/internal/providers/flightaware"
	"flight-tracker/internal/providers/skyaware"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Tracker    TrackerConfig
	Display    DisplayConfig
	Proximity  ProximityConfig
	FlightPlan FlightPlanConfig
	Database   DatabaseConfig
	Altitude   AltitudeConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// TrackerConfig describes the feed and the area around the observer
type TrackerConfig struct {
	SkyawareURL     string
	UpdateInterval  time.Duration
	StaleAfter      time.Duration
	CenterLatitude  float64
	CenterLongitude float64
	RadiusMiles     float64
	Zoom            float64
	ShowTrails      bool
	TrailLength     int
	GroundElevation bool // look up observer ground elevation from USGS
}

// DisplayConfig is the LED matrix geometry
type DisplayConfig struct {
	Width        int
	Height       int
	StatDuration time.Duration
	FontPath     string
}

type ProximityConfig struct {
	Enabled       bool
	DistanceMiles float64
	Duration      time.Duration
}

type FlightPlanConfig struct {
	Enabled           bool
	APIKey            string
	BaseURL           string
	MaxCallsPerHour   int
	DailyBudget       int
	CacheTTL          time.Duration
	MinCallsignLength int
	AirlinePrefixes   []string
	PrefetchInterval  time.Duration // 0 disables background lookups
	MaxCallsPerRun    int
}

type DatabaseConfig struct {
	Path        string
	Debug       bool
	AircraftCSV string // optional OpenSky export imported into an empty registry
}

// AltitudeConfig optionally overrides the altitude color ramp; keys are feet
type AltitudeConfig struct {
	Colors map[string][]int
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.flight-tracker")

	setDefaults(v)

	// Read from environment variables, e.g. FLIGHT_TRACKER_TRACKER_ZOOM
	v.SetEnvPrefix("FLIGHT_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("tracker.skyawareURL", skyaware.DefaultURL)
	v.SetDefault("tracker.updateInterval", 5*time.Second)
	v.SetDefault("tracker.staleAfter", 60*time.Second)
	v.SetDefault("tracker.centerLatitude", 27.9506)
	v.SetDefault("tracker.centerLongitude", -82.4572)
	v.SetDefault("tracker.radiusMiles", 10.0)
	v.SetDefault("tracker.zoom", 1.0)
	v.SetDefault("tracker.showTrails", false)
	v.SetDefault("tracker.trailLength", 10)
	v.SetDefault("tracker.groundElevation", false)

	v.SetDefault("display.width", 64)
	v.SetDefault("display.height", 32)
	v.SetDefault("display.statDuration", 10*time.Second)
	v.SetDefault("display.fontPath", "")

	v.SetDefault("proximity.enabled", true)
	v.SetDefault("proximity.distanceMiles", 0.1)
	v.SetDefault("proximity.duration", 30*time.Second)

	v.SetDefault("flightPlan.enabled", false)
	v.SetDefault("flightPlan.apiKey", "")
	v.SetDefault("flightPlan.baseURL", flightaware.DefaultBaseURL)
	v.SetDefault("flightPlan.maxCallsPerHour", 20)
	v.SetDefault("flightPlan.dailyBudget", 60)
	v.SetDefault("flightPlan.cacheTTL", 12*time.Hour)
	v.SetDefault("flightPlan.minCallsignLength", 4)
	v.SetDefault("flightPlan.airlinePrefixes", []string{
		"AAL", "UAL", "DAL", "SWA", "JBU", "ASQ", "ENY", "FFT", "NKS", "F9", "G4", "B6", "WN", "AA", "UA", "DL",
	})

	v.SetDefault("flightPlan.prefetchInterval", 4*time.Hour)
	v.SetDefault("flightPlan.maxCallsPerRun", 10)

	v.SetDefault("database.path", "flight-tracker.db")
	v.SetDefault("database.debug", false)
	v.SetDefault("database.aircraftCSV", "")
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// ViewWindow builds the validated projection window from the tracker and
// display sections
func (c *Config) ViewWindow() (geo.ViewWindow, error) {
	return geo.NewViewWindow(
		geo.NewCoordinate(c.Tracker.CenterLatitude, c.Tracker.CenterLongitude),
		c.Tracker.RadiusMiles,
		c.Tracker.Zoom,
		c.Display.Width,
		c.Display.Height,
	)
}

// Colorizer builds the altitude color ramp, using the default aviation scale
// unless altitude.colors is set
func (c *Config) Colorizer() (*altitude.Colorizer, error) {
	table := altitude.DefaultBreakpoints()
	if len(c.Altitude.Colors) > 0 {
		parsed, err := altitude.ParseBreakpoints(c.Altitude.Colors)
		if err != nil {
			return nil, err
		}
		table = parsed
	}
	return altitude.NewColorizer(table)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
