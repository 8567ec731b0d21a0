package tracker

import (
	"context"
	"log/slog"
	"time"
)

// Poller refreshes a tracker on a fixed interval from a single goroutine
type Poller struct {
	service  Service
	interval time.Duration
	logger   *slog.Logger
}

func NewPoller(service Service, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		service:  service,
		interval: interval,
		logger:   logger.With("component", "tracker-poller"),
	}
}

// Run refreshes immediately and then every interval until ctx is done.
// Refresh errors are logged; the next tick tries again.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("starting aircraft poller", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.service.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("aircraft refresh failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("stopping aircraft poller")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
