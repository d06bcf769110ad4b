package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/internal/config"
)

var ErrRecoveryExhausted = errors.New("fleet failed to launch after resetting profiles")

// RunFunc performs one fleet run. It blocks until the run fails or ctx is cancelled.
type RunFunc func(ctx context.Context) error

// ProfileResetter destroys and recreates the profile directories.
type ProfileResetter interface {
	RecreateAll() error
}

// Supervisor retries failed fleet runs. After maxAttempts consecutive failures it recreates the
// profile directories and retries once more with the same budget.
type Supervisor struct {
	run         RunFunc
	profiles    ProfileResetter
	maxAttempts int
	delay       time.Duration
	log         *zap.SugaredLogger
}

func NewSupervisor(cfg config.Fleet, profiles ProfileResetter, run RunFunc) *Supervisor {
	return &Supervisor{
		run:         run,
		profiles:    profiles,
		maxAttempts: max(cfg.MaxAttempts, 1),
		delay:       cfg.RetryDelay,
		log:         zap.S().Named("supervisor"),
	}
}

// Run supervises fleet runs until ctx is cancelled (nil) or recovery is exhausted.
func (s *Supervisor) Run(ctx context.Context) error {
	exhausted, err := s.retry(ctx)
	if err != nil || !exhausted {
		return err
	}

	s.log.Warnw("failed to launch, recreating profile directories", "attempts", s.maxAttempts)
	if err := s.profiles.RecreateAll(); err != nil {
		return fmt.Errorf("recreate profile directories: %w", err)
	}

	exhausted, err = s.retry(ctx)
	if err != nil || !exhausted {
		return err
	}

	s.log.Errorw("failed to launch after recreating profiles")
	return ErrRecoveryExhausted
}

// retry runs the fleet until it stops cleanly or fails maxAttempts times in a row. Failures of the
// maintenance loops count like launch failures.
func (s *Supervisor) retry(ctx context.Context) (exhausted bool, err error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		runErr := s.run(ctx)
		if runErr == nil || ctx.Err() != nil {
			return false, nil
		}

		s.log.Errorw("fleet run failed", "attempt", attempt, "max_attempts", s.maxAttempts,
			"after_start", errors.Is(runErr, ErrMaintenanceLoop), "error", runErr)

		if attempt == s.maxAttempts {
			break
		}

		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return false, nil
		}
	}

	return true, nil
}
