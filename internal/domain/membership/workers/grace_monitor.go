package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/config"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
)

// GraceMonitor periodically removes members whose grace period ran out.
// GET /check_pending triggers the same check on demand.
type GraceMonitor struct {
	svc      deps.MembershipService
	logger   zerolog.Logger
	interval time.Duration
	timeout  time.Duration

	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewGraceMonitor creates a grace monitor; a zero interval disables the ticker
func NewGraceMonitor(svc deps.MembershipService, cfg *config.SchedulerConfig, logger zerolog.Logger) *GraceMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &GraceMonitor{
		svc:      svc,
		logger:   logger.With().Str("component", "grace_monitor").Logger(),
		interval: cfg.GraceCheckInterval,
		timeout:  time.Minute,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the grace monitor worker
func (m *GraceMonitor) Start() {
	if m.interval <= 0 {
		m.logger.Info().Msg("grace monitor ticker disabled, relying on /check_pending")
		return
	}

	m.logger.Info().
		Dur("interval", m.interval).
		Msg("starting grace monitor worker")

	m.wg.Add(1)
	go m.run()
}

// Stop gracefully stops the grace monitor worker
func (m *GraceMonitor) Stop() {
	m.logger.Info().Msg("stopping grace monitor worker")

	m.cancel()
	close(m.done)
	m.wg.Wait()

	m.logger.Info().Msg("grace monitor worker stopped")
}

// run is the main worker loop
func (m *GraceMonitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.check()
		}
	}
}

func (m *GraceMonitor) check() {
	ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
	defer cancel()

	removed, err := m.svc.CheckPendingJoins(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Int("removed", removed).Msg("grace check completed with errors")
		return
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("grace check completed with removals")
	} else {
		m.logger.Debug().Msg("grace check completed")
	}
}
