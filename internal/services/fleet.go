package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
)

var (
	ErrLaunch = errors.New("failed to launch fleet browser")
	// ErrMaintenanceLoop marks a failure of a run that had completed its initial pass.
	ErrMaintenanceLoop = errors.New("maintenance loop failed")
)

// UpdateGate checks for and installs agent package updates.
type UpdateGate interface {
	Check(ctx context.Context) (models.UpdateResult, error)
	InstallDir() string
}

// Fleet holds the state of one fleet run: the sessions, the discovered profiles and the
// maintenance lock shared by the slow (login + update) and fast (connectivity) loops. A Fleet is
// used for a single Run and discarded afterwards.
type Fleet struct {
	cfg      config.Fleet
	ext      config.Extension
	accounts []models.SessionConfig
	profiles *Profiles
	launcher Launcher
	updater  UpdateGate
	recorder StatusRecorder

	runID      string
	sessions   []*Session
	discovered []string
	// busy is held by whichever maintenance pass is running.
	busy      *semaphore.Weighted
	slowTicks int

	mu       sync.Mutex
	statuses map[int]models.SessionStatus

	log *zap.SugaredLogger
}

func NewFleet(cfg config.Fleet, ext config.Extension, accounts []models.SessionConfig, profiles *Profiles, launcher Launcher, updater UpdateGate, recorder StatusRecorder) *Fleet {
	runID := uuid.NewString()
	return &Fleet{
		cfg:      cfg,
		ext:      ext,
		accounts: accounts,
		profiles: profiles,
		launcher: launcher,
		updater:  updater,
		recorder: recorder,
		runID:    runID,
		busy:     semaphore.NewWeighted(1),
		statuses: map[int]models.SessionStatus{},
		log:      zap.S().Named("fleet").With("run_id", runID),
	}
}

func (f *Fleet) RunID() string {
	return f.runID
}

// Status returns the last recorded status of every session, ordered by index. Safe to call while
// the run is in progress.
func (f *Fleet) Status() []models.SessionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.SessionStatus, 0, len(f.statuses))
	for _, st := range f.statuses {
		result = append(result, st)
	}
	slices.SortFunc(result, func(a, b models.SessionStatus) int { return a.Index - b.Index })
	return result
}

// Run discovers the profiles, performs the initial full maintenance pass and then runs both
// maintenance loops until ctx is cancelled or one of them fails. The returned error is a fleet
// failure; nil means the run was stopped. When Run returns both loops have exited and every browser
// of the run is closed.
func (f *Fleet) Run(ctx context.Context) error {
	defer f.Close()

	f.discovered = f.profiles.Discover()
	f.buildSessions()

	f.log.Infow("starting fleet run", "sessions", len(f.sessions), "profiles", f.discovered)

	if err := f.Maintain(ctx, true); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("initial maintenance: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return f.slowLoop(gctx) })
	g.Go(func() error { return f.fastLoop(gctx) })

	if err := g.Wait(); err != nil {
		f.log.Errorw("fleet run failed", "error", err)
		return fmt.Errorf("%w: %w", ErrMaintenanceLoop, err)
	}

	f.log.Infow("fleet run stopped")
	return nil
}

func (f *Fleet) buildSessions() {
	f.sessions = make([]*Session, 0, len(f.accounts))
	for _, acc := range f.accounts {
		s := NewSession(acc, f.ext, f.cfg.NavigationTimeout)
		if slices.Contains(f.discovered, strconv.Itoa(acc.Index)) {
			s.SetProfileDir(f.profiles.Dir(acc.Index))
		} else {
			f.log.Warnw("no profile directory for account", "index", acc.Index)
		}
		f.sessions = append(f.sessions, s)
	}
}

func (f *Fleet) slowLoop(ctx context.Context) error {
	tick := time.NewTicker(f.cfg.LoginCheckInterval)
	defer func() {
		tick.Stop()
		f.log.Debugw("login loop stopped")
	}()

	for {
		select {
		case <-tick.C:
		case <-ctx.Done():
			return nil
		}

		f.slowTicks++
		checkUpdate := f.cfg.UpdateCheckMultiplier > 0 && f.slowTicks%f.cfg.UpdateCheckMultiplier == 0
		f.log.Infow("login check tick", "tick", f.slowTicks, "check_update", checkUpdate)

		if err := f.Maintain(ctx, checkUpdate); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("login maintenance: %w", err)
		}
	}
}

func (f *Fleet) fastLoop(ctx context.Context) error {
	tick := time.NewTicker(f.cfg.ConnectivityCheckInterval)
	defer func() {
		tick.Stop()
		f.log.Debugw("connectivity loop stopped")
	}()

	for {
		select {
		case <-tick.C:
		case <-ctx.Done():
			return nil
		}

		if _, err := f.RefreshConnectivity(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connectivity maintenance: %w", err)
		}
	}
}

// Maintain performs the slow pass. With checkUpdate every browser is closed, the update gate runs
// and the browsers are launched again. Then every live session is logged in and its agent checked,
// one session at a time. Maintain waits for a running connectivity pass to finish.
func (f *Fleet) Maintain(ctx context.Context, checkUpdate bool) error {
	if err := f.busy.Acquire(ctx, 1); err != nil {
		return err
	}
	defer f.busy.Release(1)

	if checkUpdate {
		if err := f.restart(ctx); err != nil {
			return err
		}
	}

	for _, s := range f.sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.IsLive() {
			continue
		}

		if _, err := s.EnsureLoggedIn(ctx); err != nil {
			return err
		}
		if err := f.refresh(ctx, s); err != nil {
			return err
		}
		f.save(ctx, s)
	}

	return nil
}

func (f *Fleet) restart(ctx context.Context) error {
	for _, s := range f.sessions {
		if err := s.Close(); err != nil {
			f.log.Warnw("failed to close browser", "index", s.Index(), "error", err)
		}
	}

	if _, err := f.updater.Check(ctx); err != nil {
		f.log.Errorw("error checking for updates", "error", err)
	}

	f.log.Infow("launching browsers")
	for _, s := range f.sessions {
		if s.ProfileDir() == "" {
			f.save(ctx, s)
			continue
		}
		if err := s.Launch(ctx, f.launcher, f.updater.InstallDir()); err != nil {
			return fmt.Errorf("%w: %w", ErrLaunch, err)
		}
		f.save(ctx, s)
	}

	return nil
}

// RefreshConnectivity performs the fast pass over every live session. The pass is skipped, not
// queued, when another maintenance pass holds the lock; ran reports whether it executed.
func (f *Fleet) RefreshConnectivity(ctx context.Context) (ran bool, err error) {
	if !f.busy.TryAcquire(1) {
		f.log.Infow("maintenance in flight, skipping connectivity check")
		return false, nil
	}
	defer f.busy.Release(1)

	f.log.Debugw("refreshing agent connectivity")

	first := true
	for _, s := range f.sessions {
		if !s.IsLive() {
			continue
		}
		if !first {
			if err := f.jitter(ctx); err != nil {
				return true, err
			}
		}
		first = false

		if err := f.refresh(ctx, s); err != nil {
			return true, err
		}
		f.save(ctx, s)
	}

	return true, nil
}

// refresh checks the agent of s and reopens the companion page when none is open.
func (f *Fleet) refresh(ctx context.Context, s *Session) error {
	result := s.CheckConnectivity(ctx)
	if result.Err != nil || result.AgentPages > 0 {
		return nil
	}

	f.log.Infow("no agent page open, reopening", "index", s.Index())
	if err := s.OpenAgentPage(ctx); err != nil {
		if errors.Is(err, ErrBrowserUnavailable) {
			return err
		}
		f.log.Warnw("failed to reopen agent page", "index", s.Index(), "error", err)
	}
	return nil
}

func (f *Fleet) jitter(ctx context.Context) error {
	if f.cfg.FastPassJitter <= 0 {
		return nil
	}

	d := rand.N(f.cfg.FastPassJitter)
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fleet) save(ctx context.Context, s *Session) {
	status := s.Status()
	status.RunID = f.runID

	f.mu.Lock()
	f.statuses[status.Index] = status
	f.mu.Unlock()

	if err := f.recorder.SaveSession(ctx, status); err != nil {
		f.log.Warnw("failed to record session status", "index", s.Index(), "error", err)
	}
}

// Close closes every browser of the run.
func (f *Fleet) Close() {
	for _, s := range f.sessions {
		if err := s.Close(); err != nil {
			f.log.Warnw("failed to close browser", "index", s.Index(), "error", err)
		}
	}
}
