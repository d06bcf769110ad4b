package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
)

const agentConnectedText = "Connected"

var (
	ErrBrowserUnavailable = errors.New("browser unavailable")
	ErrSessionNotLaunched = errors.New("session not launched")
)

// Session owns one browser handle bound to one account and one proxy. It is not safe for
// concurrent use; the fleet serializes access through its maintenance lock.
type Session struct {
	cfg        models.SessionConfig
	ext        config.Extension
	navTimeout time.Duration
	profileDir string

	browser      Browser
	state        models.SessionState
	connectivity models.ConnectivityStatus
	lastLoginAt  time.Time
	lastCheckAt  time.Time
	lastError    error

	log *zap.SugaredLogger
}

func NewSession(cfg models.SessionConfig, ext config.Extension, navTimeout time.Duration) *Session {
	return &Session{
		cfg:          cfg,
		ext:          ext,
		navTimeout:   navTimeout,
		state:        models.SessionStateUnlaunched,
		connectivity: models.ConnectivityUnknown,
		log:          zap.S().Named("session").With("index", cfg.Index, "username", cfg.AccountUsername),
	}
}

func (s *Session) Index() int {
	return s.cfg.Index
}

func (s *Session) ProfileDir() string {
	return s.profileDir
}

func (s *Session) SetProfileDir(dir string) {
	s.profileDir = dir
}

// IsLive reports whether the session currently holds a browser handle.
func (s *Session) IsLive() bool {
	return s.browser != nil
}

func (s *Session) State() models.SessionState {
	return s.state
}

func (s *Session) Connectivity() models.ConnectivityStatus {
	return s.connectivity
}

// Launch starts the session's browser against its profile directory with the proxy applied at launch.
func (s *Session) Launch(ctx context.Context, launcher Launcher, extensionDir string) error {
	if s.browser != nil {
		return nil
	}
	if s.profileDir == "" {
		return fmt.Errorf("session %d: no profile directory", s.cfg.Index)
	}

	b, err := launcher.Launch(ctx, LaunchOptions{
		UserDataDir:  s.profileDir,
		ExtensionDir: extensionDir,
		ProxyServer:  s.cfg.Proxy.Server(),
	})
	if err != nil {
		return fmt.Errorf("launch browser for session %d: %w", s.cfg.Index, err)
	}

	s.browser = b
	s.setState(models.SessionStateLaunched)
	s.connectivity = models.ConnectivityUnknown
	s.log.Debugw("browser launched", "profile", s.profileDir, "proxy", s.cfg.Proxy.Server())
	return nil
}

// Close closes the browser handle. The session is unlaunched afterwards even if closing failed.
func (s *Session) Close() error {
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	s.setState(models.SessionStateUnlaunched)
	s.connectivity = models.ConnectivityUnknown
	if err != nil {
		return fmt.Errorf("close browser for session %d: %w", s.cfg.Index, err)
	}
	return nil
}

// EnsureLoggedIn resets the session's pages, checks the auth cookie and submits the account
// credential when it is missing. A failed login is reported through the returned state. The error
// is non-nil only when the browser itself cannot be used.
func (s *Session) EnsureLoggedIn(ctx context.Context) (models.SessionState, error) {
	if s.browser == nil {
		s.log.Warnw("browser is not launched, skipping login check")
		return models.SessionStateUnlaunched, nil
	}

	s.setState(models.SessionStateAuthCheckPending)

	pages, err := s.browser.Pages()
	if err != nil {
		return s.state, fmt.Errorf("%w: list pages of session %d: %s", ErrBrowserUnavailable, s.cfg.Index, err)
	}
	for _, p := range pages {
		if err := p.Close(); err != nil {
			s.log.Debugw("failed to close page", "url", p.URL(), "error", err)
		}
	}

	page, err := s.browser.NewPage()
	if err != nil {
		return s.state, fmt.Errorf("%w: open page of session %d: %s", ErrBrowserUnavailable, s.cfg.Index, err)
	}

	loggedIn := s.login(ctx, page)
	if loggedIn {
		s.lastLoginAt = time.Now()
		s.lastError = nil
		s.setState(models.SessionStateLoggedIn)
	} else {
		s.setState(models.SessionStateLoginFailed)
	}

	openErr := s.OpenAgentPage(ctx)

	if err := page.Close(); err != nil {
		s.log.Debugw("failed to close login page", "error", err)
	}

	if errors.Is(openErr, ErrBrowserUnavailable) {
		return s.state, openErr
	}
	if openErr != nil {
		s.log.Warnw("failed to open agent page", "error", openErr)
	}

	return s.state, nil
}

func (s *Session) login(ctx context.Context, page Page) bool {
	if err := page.Authenticate(s.cfg.Proxy); err != nil {
		s.log.Warnw("failed to set proxy authentication", "error", err)
		s.lastError = err
		return false
	}

	s.navigate(ctx, page, s.ext.LoginURL)

	if s.hasAuthCookie(page) {
		s.log.Infow("profile logged in")
		return true
	}

	s.log.Infow("profile not logged in, submitting credentials")
	if err := s.submitCredentials(ctx, page); err != nil {
		s.log.Warnw("failed to submit credentials", "error", err)
		s.lastError = err
		return false
	}

	if !s.hasAuthCookie(page) {
		s.log.Warnw("failed to log in")
		s.lastError = errors.New("auth cookie missing after login")
		return false
	}

	s.log.Infow("logged in successfully")
	return true
}

func (s *Session) submitCredentials(ctx context.Context, page Page) error {
	sel := s.ext.Selectors

	waitCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	for _, selector := range []string{sel.Username, sel.Password, sel.Submit} {
		if err := page.WaitVisible(waitCtx, selector); err != nil {
			return fmt.Errorf("wait for %q: %w", selector, err)
		}
	}

	if err := page.Input(sel.Username, s.cfg.AccountUsername); err != nil {
		return fmt.Errorf("type username: %w", err)
	}
	if err := page.Input(sel.Password, s.cfg.AccountPassword); err != nil {
		return fmt.Errorf("type password: %w", err)
	}

	navCtx, navCancel := context.WithTimeout(ctx, s.navTimeout)
	defer navCancel()

	// the cookie check that follows decides the outcome
	if err := page.ClickAndWait(navCtx, sel.Submit); err != nil {
		s.log.Debugw("wait for navigation after submit", "error", err)
	}

	return nil
}

func (s *Session) hasAuthCookie(page Page) bool {
	ok, err := page.HasCookie(s.ext.AuthCookie)
	if err != nil {
		s.log.Debugw("failed to read cookies", "error", err)
		return false
	}
	return ok
}

// navigate waits at most navTimeout. Errors are logged and treated as settled.
func (s *Session) navigate(ctx context.Context, page Page, url string) {
	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	if err := page.Navigate(navCtx, url); err != nil {
		s.log.Debugw("wait for navigation", "url", url, "error", err)
	}
}

// OpenAgentPage opens the agent's companion page so the agent can initialize.
func (s *Session) OpenAgentPage(ctx context.Context) error {
	if s.browser == nil {
		return ErrSessionNotLaunched
	}

	page, err := s.browser.NewPage()
	if err != nil {
		return fmt.Errorf("%w: open agent page of session %d: %s", ErrBrowserUnavailable, s.cfg.Index, err)
	}
	if err := page.Authenticate(s.cfg.Proxy); err != nil {
		_ = page.Close()
		return fmt.Errorf("authenticate agent page: %w", err)
	}

	s.navigate(ctx, page, s.ext.AgentPageURL())
	return nil
}

// CheckConnectivity inspects the agent page and keeps exactly one of them open. It never fails:
// inspection problems are reported as ConnectivityUnknown.
func (s *Session) CheckConnectivity(ctx context.Context) models.ConnectivityResult {
	result := s.checkConnectivity(ctx)

	s.lastCheckAt = time.Now()
	s.connectivity = result.Status
	if result.Err != nil {
		s.lastError = result.Err
		s.log.Warnw("connectivity check failed", "error", result.Err)
	}
	s.log.Debugw("connectivity checked", "status", result.Status, "agent_pages", result.AgentPages,
		"closed", result.ClosedPages, "reconnected", result.Reconnected)

	return result
}

func (s *Session) checkConnectivity(_ context.Context) models.ConnectivityResult {
	result := models.ConnectivityResult{Status: models.ConnectivityUnknown}

	if s.browser == nil {
		result.Err = ErrSessionNotLaunched
		return result
	}

	pages, err := s.browser.Pages()
	if err != nil {
		result.Err = fmt.Errorf("list pages: %w", err)
		return result
	}

	agentPages := make([]Page, 0, 1)
	for _, p := range pages {
		if strings.HasPrefix(p.URL(), s.ext.AgentPageURL()) {
			agentPages = append(agentPages, p)
		}
	}

	result.AgentPages = len(agentPages)
	if len(agentPages) == 0 {
		result.Status = models.ConnectivityDisconnected
		return result
	}

	for _, p := range agentPages[1:] {
		if err := p.Close(); err != nil {
			s.log.Debugw("failed to close duplicate agent page", "error", err)
			continue
		}
		result.ClosedPages++
	}

	page := agentPages[0]
	sel := s.ext.Selectors

	loading, err := page.Has(sel.AgentLoading)
	if err != nil {
		result.Err = fmt.Errorf("look up loading indicator: %w", err)
		return result
	}
	if loading {
		result.Status = models.ConnectivityLoading
		return result
	}

	text, err := page.Text(sel.AgentStatus)
	if err != nil {
		result.Err = fmt.Errorf("read status badge: %w", err)
		return result
	}

	if strings.TrimSpace(text) == agentConnectedText {
		result.Status = models.ConnectivityConnected
		return result
	}

	if err := page.Click(sel.AgentReconnect); err != nil {
		result.Status = models.ConnectivityUnknown
		result.Err = fmt.Errorf("click reconnect: %w", err)
		return result
	}
	result.Status = models.ConnectivityDisconnected
	result.Reconnected = true
	s.log.Infow("agent disconnected, reconnect requested", "badge", text)

	return result
}

// Status returns a snapshot of the session.
func (s *Session) Status() models.SessionStatus {
	status := models.SessionStatus{
		Index:        s.cfg.Index,
		Username:     s.cfg.AccountUsername,
		ProxyHost:    s.cfg.Proxy.Host,
		State:        s.state,
		Connectivity: s.connectivity,
		LastLoginAt:  s.lastLoginAt,
		LastCheckAt:  s.lastCheckAt,
		UpdatedAt:    time.Now(),
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	return status
}

func (s *Session) setState(state models.SessionState) {
	if s.state != state {
		s.log.Debugw("session state transition", "from", s.state, "to", state)
	}
	s.state = state
}
