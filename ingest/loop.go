package ingest

import (
	"context"
	"errors"
	"time"

	"wim-pipeline/config"
	"wim-pipeline/models"

	"go.uber.org/zap"
)

// ErrRetriesExhausted is returned by Run after the retry budget is spent
// on consecutive processing faults. It is fatal: the loop is terminated.
var ErrRetriesExhausted = errors.New("maximum retries reached")

// Source is the station-facing adapter the loop polls.
type Source interface {
	Healthy(ctx context.Context) bool
	FetchSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// Inserter persists one flattened snapshot atomically.
type Inserter interface {
	Insert(ctx context.Context, m *models.Measurement, groups []models.ReadingGroup, comps []models.ComponentReading) error
}

// Publisher forwards committed snapshots to a live channel. Publishing
// is best effort and never fails a cycle.
type Publisher interface {
	Available() bool
	Publish(ctx context.Context, v any) error
}

// State of the acquisition loop.
type State int

const (
	WaitingForSource State = iota
	Polling
	Processing
	RetryBackoff
	Terminated
)

func (s State) String() string {
	switch s {
	case WaitingForSource:
		return "waiting_for_source"
	case Polling:
		return "polling"
	case Processing:
		return "processing"
	case RetryBackoff:
		return "retry_backoff"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Loop drives the acquisition pipeline: wait for the station to come up,
// poll on a fixed cadence, de-duplicate by snapshot identity, and run
// transform + insert for each new snapshot. Processing faults share one
// bounded retry budget; the budget refills after a successful cycle.
type Loop struct {
	src  Source
	dst  Inserter
	live Publisher // may be nil
	cfg  config.PipelineConfig
	log  *zap.Logger

	lastID string
}

func NewLoop(src Source, dst Inserter, live Publisher, cfg config.PipelineConfig, log *zap.Logger) *Loop {
	return &Loop{src: src, dst: dst, live: live, cfg: cfg, log: log}
}

// LastProcessedID returns the identity of the most recently committed
// snapshot, or "" when nothing has been processed yet.
func (l *Loop) LastProcessedID() string { return l.lastID }

// Run blocks until the context is cancelled or the retry budget is
// exhausted. Cancellation returns ctx.Err(); exhaustion returns
// ErrRetriesExhausted after a single exhaustion report.
func (l *Loop) Run(ctx context.Context) error {
	state := WaitingForSource
	retries := l.cfg.MaxRetries

	var snap *models.Snapshot
	var fault error

	for {
		if err := ctx.Err(); err != nil {
			l.log.Info("acquisition loop cancelled", zap.String("state", state.String()))
			return err
		}

		switch state {
		case WaitingForSource:
			if l.src.Healthy(ctx) {
				l.log.Info("station healthy, starting acquisition")
				state = Polling
				continue
			}
			l.log.Info("waiting for station to come up")
			if err := sleep(ctx, l.cfg.ProbeInterval); err != nil {
				return err
			}

		case Polling:
			fetched, err := l.src.FetchSnapshot(ctx)
			if err != nil {
				fault = err
				state = RetryBackoff
				continue
			}
			snapshotsFetched.Inc()

			if id := fetched.Identity(); id == l.lastID {
				snapshotsSkipped.Inc()
				l.log.Info("no new snapshot, skipping insert", zap.String("identity", id))
				if err := sleep(ctx, l.cfg.PollInterval); err != nil {
					return err
				}
				continue
			}
			snap = fetched
			state = Processing

		case Processing:
			if err := l.process(ctx, snap); err != nil {
				fault = err
				state = RetryBackoff
				continue
			}
			l.lastID = snap.Identity()
			retries = l.cfg.MaxRetries
			snap = nil
			if err := sleep(ctx, l.cfg.PollInterval); err != nil {
				return err
			}
			state = Polling

		case RetryBackoff:
			processingFailures.Inc()
			retries--
			if retries <= 0 {
				l.log.Error("maximum retries reached, terminating",
					zap.Int("budget", l.cfg.MaxRetries), zap.Error(fault))
				return ErrRetriesExhausted
			}
			l.log.Warn("processing fault, backing off",
				zap.Int("retries_left", retries),
				zap.Duration("delay", l.cfg.RetryDelay),
				zap.Error(fault))
			if err := sleep(ctx, l.cfg.RetryDelay); err != nil {
				return err
			}
			state = Polling
		}
	}
}

func (l *Loop) process(ctx context.Context, snap *models.Snapshot) error {
	id := snap.Identity()
	l.log.Info("new snapshot found, transforming", zap.String("identity", id))

	m, groups, comps, err := Transform(snap)
	if err != nil {
		return err
	}

	l.log.Info("inserting snapshot",
		zap.Int64("measurement", m.PK),
		zap.Int("reading_groups", len(groups)),
		zap.Int("component_readings", len(comps)))
	if err := l.dst.Insert(ctx, m, groups, comps); err != nil {
		return err
	}
	snapshotsStored.Inc()

	if l.live != nil && l.live.Available() {
		if err := l.live.Publish(ctx, snap); err != nil {
			l.log.Warn("live publish failed", zap.Error(err))
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
