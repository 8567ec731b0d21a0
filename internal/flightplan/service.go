package flightplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"flight-tracker/internal/config"
	"flight-tracker/internal/providers/flightaware"
	"flight-tracker/internal/store"
)

var (
	// ErrBudgetExhausted means the hourly, daily or monthly call budget is spent
	ErrBudgetExhausted = errors.New("flight plan API budget exhausted")
	// ErrNotEligible means the callsign does not look like an airline flight
	ErrNotEligible = errors.New("callsign not eligible for flight plan lookup")
	ErrNotFound    = errors.New("no flight plan found")
)

const (
	costPerCall            = 0.005
	monthlyBudget          = 10.0
	budgetWarningThreshold = 0.8
)

// FlightProvider fetches flight details for a callsign
type FlightProvider interface {
	GetFlights(ctx context.Context, ident string) (*flightaware.FlightsAPIResponse, error)
}

// PlanCache stores fetched plans between runs
type PlanCache interface {
	GetFlightPlan(callsign string, ttl time.Duration, now time.Time) (*store.FlightPlanRecord, error)
	SaveFlightPlan(rec store.FlightPlanRecord) error
	PruneFlightPlans(cutoff time.Time) (int64, error)
}

type FlightPlan struct {
	Callsign     string    `json:"callsign"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	AircraftType string    `json:"aircraftType"`
	Status       string    `json:"status"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// Usage reports API consumption against the configured budgets
type Usage struct {
	CallsThisHour        int     `json:"callsThisHour"`
	MaxCallsPerHour      int     `json:"maxCallsPerHour"`
	CallsToday           int     `json:"callsToday"`
	DailyBudget          int     `json:"dailyBudget"`
	CallsThisMonth       int     `json:"callsThisMonth"`
	EstimatedMonthlyCost float64 `json:"estimatedMonthlyCost"`
	MonthlyBudget        float64 `json:"monthlyBudget"`
}

type Service interface {
	Lookup(ctx context.Context, callsign string) (*FlightPlan, error)
	Prefetch(ctx context.Context, callsigns []string, maxCalls int) int
	Eligible(callsign string) bool
	Usage() Usage
	PruneCache() (int64, error)
}

type Options struct {
	MaxCallsPerHour   int
	DailyBudget       int
	MinCallsignLength int
	AirlinePrefixes   []string
	CacheTTL          time.Duration
	// Location decides when the daily budget resets; defaults to UTC
	Location *time.Location
	Now      func() time.Time
}

type flightPlanService struct {
	provider FlightProvider
	cache    PlanCache
	opts     Options
	logger   *slog.Logger

	mu          sync.Mutex
	callTimes   []time.Time
	callsToday  int
	day         string
	callsMonth  int
	month       string
	warnedMonth string
}

// NewFlightPlanService wires the AeroAPI client from configuration. loc is
// the observer's time zone, used for the daily budget reset.
func NewFlightPlanService(cfg *config.Config, cache PlanCache, loc *time.Location, logger *slog.Logger) Service {
	fp := cfg.FlightPlan
	client := flightaware.NewClient(fp.BaseURL, fp.APIKey, logger)
	return NewFlightPlanServiceWithProviders(client, cache, Options{
		MaxCallsPerHour:   fp.MaxCallsPerHour,
		DailyBudget:       fp.DailyBudget,
		MinCallsignLength: fp.MinCallsignLength,
		AirlinePrefixes:   fp.AirlinePrefixes,
		CacheTTL:          fp.CacheTTL,
		Location:          loc,
	}, logger)
}

func NewFlightPlanServiceWithProviders(provider FlightProvider, cache PlanCache, opts Options, logger *slog.Logger) Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 12 * time.Hour
	}
	return &flightPlanService{
		provider: provider,
		cache:    cache,
		opts:     opts,
		logger:   logger.With("component", "flightplan-service"),
	}
}

// Eligible reports whether callsign is long enough and carries one of the
// configured airline prefixes
func (s *flightPlanService) Eligible(callsign string) bool {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if len(callsign) < s.opts.MinCallsignLength {
		return false
	}
	if len(s.opts.AirlinePrefixes) == 0 {
		return true
	}
	for _, prefix := range s.opts.AirlinePrefixes {
		if strings.HasPrefix(callsign, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// Lookup returns a cached plan when fresh, otherwise calls the provider if the
// budget allows
func (s *flightPlanService) Lookup(ctx context.Context, callsign string) (*FlightPlan, error) {
	plan, _, err := s.lookup(ctx, strings.ToUpper(strings.TrimSpace(callsign)))
	return plan, err
}

// lookup also reports whether the provider was called
func (s *flightPlanService) lookup(ctx context.Context, callsign string) (*FlightPlan, bool, error) {
	now := s.opts.Now()

	if s.cache != nil {
		rec, err := s.cache.GetFlightPlan(callsign, s.opts.CacheTTL, now)
		switch {
		case err == nil:
			return fromRecord(rec), false, nil
		case !errors.Is(err, store.ErrNotFound):
			s.logger.Warn("flight plan cache lookup failed", "callsign", callsign, "error", err)
		}
	}

	if !s.Eligible(callsign) {
		return nil, false, fmt.Errorf("%w: %s", ErrNotEligible, callsign)
	}

	if err := s.reserveCall(now); err != nil {
		s.logger.Debug("skipping flight plan lookup", "callsign", callsign, "error", err)
		return nil, false, err
	}

	resp, err := s.provider.GetFlights(ctx, callsign)
	if err != nil {
		s.logger.Error("failed to fetch flight plan", "callsign", callsign, "error", err)
		return nil, true, fmt.Errorf("failed to fetch flight plan: %w", err)
	}
	if len(resp.Flights) == 0 {
		return nil, true, fmt.Errorf("%w: %s", ErrNotFound, callsign)
	}

	plan := toFlightPlan(callsign, resp.Flights[0], now)

	if s.cache != nil {
		if err := s.cache.SaveFlightPlan(toRecord(plan)); err != nil {
			s.logger.Warn("failed to cache flight plan", "callsign", callsign, "error", err)
		}
	}

	return plan, true, nil
}

// Prefetch looks up plans for eligible callsigns, spending at most maxCalls
// provider calls. It returns the number of plans now available.
func (s *flightPlanService) Prefetch(ctx context.Context, callsigns []string, maxCalls int) int {
	seen := make(map[string]bool, len(callsigns))
	found, calls := 0, 0

	for _, cs := range callsigns {
		cs = strings.ToUpper(strings.TrimSpace(cs))
		if seen[cs] || !s.Eligible(cs) {
			continue
		}
		seen[cs] = true

		_, called, err := s.lookup(ctx, cs)
		if called {
			calls++
		}
		if err == nil {
			found++
		}
		if errors.Is(err, ErrBudgetExhausted) || (maxCalls > 0 && calls >= maxCalls) || ctx.Err() != nil {
			break
		}
	}

	s.logger.Info("flight plan prefetch finished", "plans", found, "api_calls", calls)
	return found
}

// PruneCache deletes cached plans older than the cache TTL
func (s *flightPlanService) PruneCache() (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.PruneFlightPlans(s.opts.Now().Add(-s.opts.CacheTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to prune flight plan cache: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned expired flight plans", "count", n)
	}
	return n, nil
}

// reserveCall records a provider call if all budgets allow it
func (s *flightPlanService) reserveCall(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roll(now)

	if s.opts.MaxCallsPerHour > 0 && len(s.callTimes) >= s.opts.MaxCallsPerHour {
		return fmt.Errorf("%w: %d calls in the last hour", ErrBudgetExhausted, len(s.callTimes))
	}
	if s.opts.DailyBudget > 0 && s.callsToday >= s.opts.DailyBudget {
		return fmt.Errorf("%w: %d calls today", ErrBudgetExhausted, s.callsToday)
	}
	if float64(s.callsMonth+1)*costPerCall > monthlyBudget {
		return fmt.Errorf("%w: monthly budget of $%.2f reached", ErrBudgetExhausted, monthlyBudget)
	}

	s.callTimes = append(s.callTimes, now)
	s.callsToday++
	s.callsMonth++

	cost := float64(s.callsMonth) * costPerCall
	if cost >= monthlyBudget*budgetWarningThreshold && s.warnedMonth != s.month {
		s.warnedMonth = s.month
		s.logger.Warn("flight plan API spend approaching monthly budget",
			"estimated_cost", cost,
			"monthly_budget", monthlyBudget,
		)
	}
	return nil
}

// roll drops calls older than an hour and resets the daily and monthly
// counters when the local date changes. Callers hold s.mu.
func (s *flightPlanService) roll(now time.Time) {
	cutoff := now.Add(-time.Hour)
	keep := s.callTimes[:0]
	for _, t := range s.callTimes {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}
	s.callTimes = keep

	local := now.In(s.opts.Location)
	if day := local.Format("2006-01-02"); day != s.day {
		if s.day != "" {
			s.logger.Info("resetting daily flight plan budget", "calls_yesterday", s.callsToday)
		}
		s.day = day
		s.callsToday = 0
	}
	if month := local.Format("2006-01"); month != s.month {
		s.month = month
		s.callsMonth = 0
	}
}

func (s *flightPlanService) Usage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roll(s.opts.Now())
	return Usage{
		CallsThisHour:        len(s.callTimes),
		MaxCallsPerHour:      s.opts.MaxCallsPerHour,
		CallsToday:           s.callsToday,
		DailyBudget:          s.opts.DailyBudget,
		CallsThisMonth:       s.callsMonth,
		EstimatedMonthlyCost: float64(s.callsMonth) * costPerCall,
		MonthlyBudget:        monthlyBudget,
	}
}

func toFlightPlan(callsign string, f flightaware.Flight, now time.Time) *FlightPlan {
	plan := &FlightPlan{
		Callsign:     callsign,
		AircraftType: f.AircraftType,
		Status:       f.Status,
		FetchedAt:    now,
	}
	if f.Origin != nil {
		plan.Origin = airportCode(f.Origin)
	}
	if f.Destination != nil {
		plan.Destination = airportCode(f.Destination)
	}
	return plan
}

// airportCode prefers the IATA code, which fits better on a small panel
func airportCode(a *flightaware.Airport) string {
	switch {
	case a.CodeIATA != "":
		return a.CodeIATA
	case a.CodeICAO != "":
		return a.CodeICAO
	default:
		return a.Code
	}
}

func toRecord(p *FlightPlan) store.FlightPlanRecord {
	return store.FlightPlanRecord{
		Callsign:     p.Callsign,
		Origin:       p.Origin,
		Destination:  p.Destination,
		AircraftType: p.AircraftType,
		Status:       p.Status,
		FetchedAt:    p.FetchedAt,
	}
}

func fromRecord(r *store.FlightPlanRecord) *FlightPlan {
	return &FlightPlan{
		Callsign:     r.Callsign,
		Origin:       r.Origin,
		Destination:  r.Destination,
		AircraftType: r.AircraftType,
		Status:       r.Status,
		FetchedAt:    r.FetchedAt,
	}
}
