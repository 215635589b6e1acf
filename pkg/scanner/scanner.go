// Package scanner implements the periodic new-pair scan and alert dispatch.
package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger"
	"github.com/samber/lo"
)

// Scanner polls the screener and alerts on fresh high-volume pairs
type Scanner struct {
	settings core.Settings
	screener core.Screener
	storage  core.AlertStorage
	notifier core.Notifier
	log      logger.Logger
	clock    func() time.Time

	mu         sync.Mutex
	startedAt  time.Time
	lastScan   time.Time
	scanCount  int64
	alertCount int64
}

// Status is a snapshot of the scanner's progress for the status API
type Status struct {
	StartedAt  time.Time `json:"started_at"`
	LastScan   time.Time `json:"last_scan"`
	ScanCount  int64     `json:"scan_count"`
	AlertCount int64     `json:"alert_count"`
}

// Option is a function that configures a Scanner instance
type Option func(*Scanner)

// WithClock overrides the time source, mainly for tests
func WithClock(clock func() time.Time) Option {
	return func(s *Scanner) {
		s.clock = clock
	}
}

// New creates a Scanner with the provided dependencies
func New(
	settings core.Settings,
	screener core.Screener,
	storage core.AlertStorage,
	notifier core.Notifier,
	log logger.Logger,
	options ...Option,
) *Scanner {
	scanner := &Scanner{
		settings: settings,
		screener: screener,
		storage:  storage,
		notifier: notifier,
		log:      log,
		clock:    time.Now,
	}

	for _, option := range options {
		option(scanner)
	}

	return scanner
}

// Run scans immediately and then on every tick until the context is done.
// Scan failures are logged and never stop the loop.
func (s *Scanner) Run(ctx context.Context) error {
	s.mu.Lock()
	s.startedAt = s.clock()
	s.mu.Unlock()

	ticker := time.NewTicker(s.settings.ScanInterval)
	defer ticker.Stop()

	s.log.Infof("starting scan loop, interval %s", s.settings.ScanInterval)

	for {
		if err := s.Scan(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.WithError(err).Error("scan failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Scan performs a single pass: fetch, filter, alert, persist.
func (s *Scanner) Scan(ctx context.Context) error {
	pairs, err := s.screener.Search(ctx, s.settings.Query)
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	candidates := lo.Filter(pairs, func(pair core.Pair, _ int) bool {
		return s.isCandidate(pair, now)
	})

	s.log.Debugf("scan found %d candidates out of %d pairs", len(candidates), len(pairs))

	for _, pair := range candidates {
		s.process(ctx, pair, now)
	}

	s.mu.Lock()
	s.lastScan = now
	s.scanCount++
	s.mu.Unlock()

	return nil
}

// isCandidate applies the alert rules to a single pair
func (s *Scanner) isCandidate(pair core.Pair, now time.Time) bool {
	if pair.ChainID != s.settings.ChainID {
		return false
	}

	// Pairs without a known creation time report a negative age and
	// cannot be aged, so they are never candidates
	age := pair.Age(now)
	if age < 0 || age > s.settings.MaxPairAge {
		return false
	}

	return pair.VolumeUSD24h > s.settings.MinVolumeUSD
}

// process alerts a single candidate and records it. The record is written
// only after a successful delivery so failed sends are retried next scan.
func (s *Scanner) process(ctx context.Context, pair core.Pair, now time.Time) {
	contextLog := s.log.WithField("coin", pair.BaseToken.Name)

	seen, err := s.storage.HasAlert(ctx, pair.BaseToken.Address)
	if err != nil {
		contextLog.WithError(err).Error("failed to check alert history")
		return
	}
	if seen {
		return
	}

	alert := core.NewAlert(pair, now)
	if err := s.notifier.OnAlert(alert); err != nil {
		contextLog.WithError(err).Error("failed to deliver alert")
		return
	}

	if err := s.storage.CreateAlert(ctx, &alert); err != nil {
		contextLog.WithError(err).Error("failed to persist alert")
		return
	}

	s.mu.Lock()
	s.alertCount++
	s.mu.Unlock()

	contextLog.Infof("new coin alerted, volume %.0f USD", alert.VolumeUSD)
}

// Status returns a snapshot of the scanner's counters
func (s *Scanner) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		StartedAt:  s.startedAt,
		LastScan:   s.lastScan,
		ScanCount:  s.scanCount,
		AlertCount: s.alertCount,
	}
}
