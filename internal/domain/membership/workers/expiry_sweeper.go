// Package workers contains background workers for the membership domain
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/config"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
)

// sweepTimeout bounds one scheduled sweep
const sweepTimeout = 10 * time.Minute

// ExpirySweeper runs the expiry sweep on a cron schedule in the operator's timezone
type ExpirySweeper struct {
	svc      deps.MembershipService
	cron     *cron.Cron
	schedule string
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewExpirySweeper creates a sweeper; an invalid schedule is a startup error
func NewExpirySweeper(svc deps.MembershipService, cfg *config.SchedulerConfig, logger zerolog.Logger) (*ExpirySweeper, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &ExpirySweeper{
		svc:      svc,
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.SweepSchedule,
		logger:   logger.With().Str("component", "expiry_sweeper").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}

	if _, err := s.cron.AddFunc(cfg.SweepSchedule, s.runSweep); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid SWEEP_SCHEDULE %q: %w", cfg.SweepSchedule, err)
	}

	return s, nil
}

// Start starts the cron scheduler
func (s *ExpirySweeper) Start() {
	s.logger.Info().
		Str("schedule", s.schedule).
		Str("location", s.cron.Location().String()).
		Msg("starting expiry sweeper")

	s.cron.Start()
}

// Stop stops scheduling and waits for a running sweep to finish
func (s *ExpirySweeper) Stop(ctx context.Context) error {
	s.logger.Info().Msg("stopping expiry sweeper")

	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info().Msg("expiry sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun reports when the sweep fires next
func (s *ExpirySweeper) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *ExpirySweeper) runSweep() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	report, err := s.svc.Sweep(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled expiry sweep finished with errors")
		return
	}

	s.logger.Info().
		Int("expired", report.Expired).
		Int("reminded", report.Reminded).
		Msg("scheduled expiry sweep completed")
}
