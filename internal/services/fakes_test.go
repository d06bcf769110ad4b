package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/services"
)

const (
	agentID     = "agentid"
	loginURL    = "https://login.example.com/"
	selUsername = "#username"
	selPassword = "#password"
	selSubmit   = "#submit"
	selLoading  = ".spinner"
	selStatus   = "#status"
	selReconn   = "#reconnect"
)

func testExtension() config.Extension {
	return config.Extension{
		ID:         agentID,
		Name:       "grass-extension",
		PagePath:   "index.html",
		LoginURL:   loginURL,
		AuthCookie: "token",
		Selectors: config.Selectors{
			Username:       selUsername,
			Password:       selPassword,
			Submit:         selSubmit,
			AgentLoading:   selLoading,
			AgentStatus:    selStatus,
			AgentReconnect: selReconn,
		},
	}
}

func agentURL() string {
	return testExtension().AgentPageURL()
}

func testAccount(index int) models.SessionConfig {
	return models.SessionConfig{
		Index:           index,
		Proxy:           models.ProxyCredential{Host: "10.0.0.1", Port: 3128, Username: "puser", Password: "ppass"},
		AccountUsername: "alice@example.com",
		AccountPassword: "secret",
	}
}

// MockLauncher hands out MockBrowsers built by setup.
type MockLauncher struct {
	mu       sync.Mutex
	err      error
	launches []services.LaunchOptions
	browsers []*MockBrowser
	setup    func(b *MockBrowser)
}

func NewMockLauncher(setup func(b *MockBrowser)) *MockLauncher {
	return &MockLauncher{setup: setup}
}

func (m *MockLauncher) Launch(_ context.Context, opts services.LaunchOptions) (services.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	m.launches = append(m.launches, opts)

	b := NewMockBrowser()
	if m.setup != nil {
		m.setup(b)
	}
	m.browsers = append(m.browsers, b)
	return b, nil
}

func (m *MockLauncher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockLauncher) Launches() []services.LaunchOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.LaunchOptions{}, m.launches...)
}

func (m *MockLauncher) Browsers() []*MockBrowser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockBrowser{}, m.browsers...)
}

// MockBrowser is an in-memory browser. Elements, texts and cookies are shared by all its pages.
type MockBrowser struct {
	mu          sync.Mutex
	pages       []*MockPage
	elements    map[string]bool
	texts       map[string]string
	cookies     map[string]bool
	acceptLogin bool
	pagesErr    error
	newPageErr  error
	authErr     error
	closed      bool
	pagesCalls  int
	clicks      []string
	inputs      map[string]string

	// block holds every navigation until closed; navigating is signalled when one starts.
	block      chan struct{}
	navigating chan struct{}
}

func NewMockBrowser() *MockBrowser {
	return &MockBrowser{
		elements:   map[string]bool{},
		texts:      map[string]string{},
		cookies:    map[string]bool{},
		inputs:     map[string]string{},
		navigating: make(chan struct{}, 16),
	}
}

func (b *MockBrowser) Pages() ([]services.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pagesCalls++
	if b.pagesErr != nil {
		return nil, b.pagesErr
	}

	result := []services.Page{}
	for _, p := range b.pages {
		if !p.closed {
			result = append(result, p)
		}
	}
	return result, nil
}

func (b *MockBrowser) NewPage() (services.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.newPageErr != nil {
		return nil, b.newPageErr
	}
	return b.addPage("about:blank"), nil
}

func (b *MockBrowser) BuildID() (string, error) {
	return "120.0.6099.109", nil
}

func (b *MockBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// AddPage opens a page at url. The caller must not hold the lock.
func (b *MockBrowser) AddPage(url string) *MockPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addPage(url)
}

func (b *MockBrowser) addPage(url string) *MockPage {
	p := &MockPage{browser: b, url: url}
	b.pages = append(b.pages, p)
	return p
}

func (b *MockBrowser) Configure(fn func(b *MockBrowser)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *MockBrowser) OpenPages(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, p := range b.pages {
		if !p.closed && strings.HasPrefix(p.url, prefix) {
			n++
		}
	}
	return n
}

func (b *MockBrowser) Clicks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.clicks...)
}

func (b *MockBrowser) Inputs() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	inputs := map[string]string{}
	for k, v := range b.inputs {
		inputs[k] = v
	}
	return inputs
}

func (b *MockBrowser) PagesCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pagesCalls
}

func (b *MockBrowser) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

type MockPage struct {
	browser *MockBrowser
	url     string
	closed  bool
}

func (p *MockPage) URL() string {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	return p.url
}

func (p *MockPage) Authenticate(models.ProxyCredential) error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	return p.browser.authErr
}

func (p *MockPage) Navigate(ctx context.Context, url string) error {
	p.browser.mu.Lock()
	block := p.browser.block
	p.browser.mu.Unlock()

	if block != nil {
		select {
		case p.browser.navigating <- struct{}{}:
		default:
		}
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.url = url
	return nil
}

func (p *MockPage) HasCookie(name string) (bool, error) {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	return p.browser.cookies[name], nil
}

func (p *MockPage) Has(selector string) (bool, error) {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	return p.browser.elements[selector], nil
}

func (p *MockPage) WaitVisible(ctx context.Context, selector string) error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	if !p.browser.elements[selector] {
		return context.DeadlineExceeded
	}
	return nil
}

func (p *MockPage) Text(selector string) (string, error) {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	text, ok := p.browser.texts[selector]
	if !ok {
		return "", errors.New("element not found")
	}
	return text, nil
}

func (p *MockPage) Input(selector, text string) error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.browser.inputs[selector] = text
	return nil
}

func (p *MockPage) Click(selector string) error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	if !p.browser.elements[selector] {
		return errors.New("element not found")
	}
	p.browser.clicks = append(p.browser.clicks, selector)
	return nil
}

func (p *MockPage) ClickAndWait(_ context.Context, selector string) error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.browser.clicks = append(p.browser.clicks, selector)
	if p.browser.acceptLogin {
		p.browser.cookies[testExtension().AuthCookie] = true
	}
	return nil
}

func (p *MockPage) Close() error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.closed = true
	return nil
}

// healthyBrowser is logged in and reports a connected agent.
func healthyBrowser(b *MockBrowser) {
	b.cookies["token"] = true
	b.texts[selStatus] = "Connected"
}

// MockRecorder keeps recorded statuses in memory.
type MockRecorder struct {
	mu       sync.Mutex
	sessions map[int]models.SessionStatus
	updates  []models.UpdateResult
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{sessions: map[int]models.SessionStatus{}}
}

func (r *MockRecorder) SaveSession(_ context.Context, status models.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[status.Index] = status
	return nil
}

func (r *MockRecorder) SaveUpdate(_ context.Context, result models.UpdateResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, result)
	return nil
}

func (r *MockRecorder) State(index int) models.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[index].State
}

func (r *MockRecorder) Session(index int) (models.SessionStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[index]
	return s, ok
}

func (r *MockRecorder) Updates() []models.UpdateResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.UpdateResult{}, r.updates...)
}

// MockUpdateGate counts update checks.
type MockUpdateGate struct {
	mu    sync.Mutex
	calls int
	err   error
	dir   string
}

func (u *MockUpdateGate) Check(context.Context) (models.UpdateResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	return models.UpdateResult{CheckedAt: time.Now()}, u.err
}

func (u *MockUpdateGate) InstallDir() string {
	return u.dir
}

func (u *MockUpdateGate) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

// MockRegistry serves a fixed release.
type MockRegistry struct {
	release     models.Release
	latestErr   error
	downloadErr error
	downloads   []string
}

func (r *MockRegistry) Latest(context.Context) (models.Release, error) {
	return r.release, r.latestErr
}

func (r *MockRegistry) Download(_ context.Context, _ models.Release, dst string) (string, error) {
	if r.downloadErr != nil {
		return "", r.downloadErr
	}
	r.downloads = append(r.downloads, dst)
	return "digest", nil
}

type MockExtractor struct {
	err       error
	extracted []string
}

func (e *MockExtractor) Extract(archive, dst string) error {
	if e.err != nil {
		return e.err
	}
	e.extracted = append(e.extracted, archive+"->"+dst)
	return nil
}

type MockMarker struct {
	version  string
	present  bool
	readErr  error
	writeErr error
	writes   []string
}

func (m *MockMarker) Read() (string, bool, error) {
	return m.version, m.present, m.readErr
}

func (m *MockMarker) Write(version string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, version)
	m.version, m.present = version, true
	return nil
}
