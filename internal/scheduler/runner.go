// Package scheduler runs the update checker periodically inside the process.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/daily-news/internal/checker"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const initialRetryInterval = 30 * time.Second

var ErrCycleRunning = errors.New("check cycle already running")

type Checker interface {
	Check(ctx context.Context, attempt int) checker.Outcome
}

// Cycle describes one finished run of the checker.
type Cycle struct {
	ID       string
	Outcome  checker.Outcome
	Attempts int
}

type Option func(*Runner)

// WithBackOff sets the retry policy used between attempts of one cycle.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(r *Runner) {
		r.newBackOff = newBackOff
	}
}

// WithJitter replaces the random offset picked inside the flex window.
func WithJitter(jitter func(flex time.Duration) time.Duration) Option {
	return func(r *Runner) {
		r.jitter = jitter
	}
}

type Runner struct {
	checker    Checker
	cfg        Config
	newBackOff func() backoff.BackOff
	jitter     func(flex time.Duration) time.Duration

	mu sync.Mutex
}

func NewRunner(c Checker, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		checker:    c,
		cfg:        cfg,
		newBackOff: defaultBackOff,
		jitter:     randomJitter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryInterval
	bo.MaxElapsedTime = 0
	return bo
}

func randomJitter(flex time.Duration) time.Duration {
	if flex <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(flex) + 1))
}

// NextDelay is the wait before the next cycle: a random instant inside the flex
// window at the end of the interval.
func (r *Runner) NextDelay() time.Duration {
	flex := min(max(r.cfg.Flex, 0), r.cfg.Interval)
	return r.cfg.Interval - flex + r.jitter(flex)
}

// Run fires a cycle after every delay until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("Update check scheduler started", "interval", r.cfg.Interval, "flex", r.cfg.Flex)

	for {
		delay := r.NextDelay()
		timer := time.NewTimer(delay)
		slog.Debug("Next update check scheduled", "in", delay)

		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Update check scheduler stopped")
			return nil
		case <-timer.C:
		}

		if _, err := r.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("Update check cycle did not complete", "error", err)
		}
	}
}

// RunCycle runs attempts 1..MaxAttempts, backing off between retries.
// A cycle that is still running is never overlapped; ErrCycleRunning is returned instead.
func (r *Runner) RunCycle(ctx context.Context) (Cycle, error) {
	if !r.mu.TryLock() {
		return Cycle{}, ErrCycleRunning
	}
	defer r.mu.Unlock()

	cycle := Cycle{ID: uuid.NewString()}
	logger := slog.With("run_id", cycle.ID)
	bo := r.newBackOff()

	for attempt := 1; ; attempt++ {
		cycle.Attempts = attempt
		cycle.Outcome = r.checker.Check(ctx, attempt)

		if cycle.Outcome == checker.OutcomeRetry && attempt >= checker.MaxAttempts {
			cycle.Outcome = checker.OutcomeFailure
		}
		if cycle.Outcome != checker.OutcomeRetry {
			logger.Info("Update check cycle finished", "outcome", cycle.Outcome.String(), "attempts", attempt)
			return cycle, nil
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			cycle.Outcome = checker.OutcomeFailure
			return cycle, nil
		}
		logger.Debug("Retrying update check", "attempt", attempt+1, "in", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			cycle.Outcome = checker.OutcomeFailure
			return cycle, ctx.Err()
		case <-timer.C:
		}
	}
}
