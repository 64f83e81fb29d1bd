// Package sweeper deletes rows that can no longer authenticate
// anybody: magic-link tokens well past expiry and expired sessions.
// Correctness never depends on it running, since expired rows are
// already unusable; it is idempotent and safe to run concurrently
// with live verification.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/metrics"
	"github.com/larabeech/guestgate/internal/repository"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	tokens   repository.TokenRepository
	sessions repository.SessionRepository
	logger   *slog.Logger
	schedule cron.Schedule
}

// New parses a standard five-field cron expression for the sweep
// schedule.
func New(tokens repository.TokenRepository, sessions repository.SessionRepository, logger *slog.Logger, cronExpr string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger.With("component", "sweeper"),
		schedule: schedule,
	}, nil
}

// Start runs sweeps on the cron schedule until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one cycle. Tokens are kept for a grace period past
// expiry so recent failures remain inspectable; sessions go as soon as
// they expire.
func (s *Sweeper) Sweep(ctx context.Context) {
	start := time.Now()

	tokenCutoff := start.Add(-domain.TokenSweepGrace)
	tokens, err := s.tokens.DeleteExpiredBefore(ctx, tokenCutoff)
	if err != nil {
		s.logger.Error("sweep tokens", "error", err)
	} else if tokens > 0 {
		s.logger.Info("swept expired magic link tokens", "count", tokens)
		metrics.SweptTokens.Add(float64(tokens))
	}

	sessions, err := s.sessions.DeleteExpiredBefore(ctx, start)
	if err != nil {
		s.logger.Error("sweep sessions", "error", err)
	} else if sessions > 0 {
		s.logger.Info("swept expired guest sessions", "count", sessions)
		metrics.SweptSessions.Add(float64(sessions))
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())
}
