// Package browser implements the fleet's browser ports on top of go-rod.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/services"
)

var ErrElementNotFound = errors.New("element not found")

// Launcher starts Chrome instances through rod's launcher.
type Launcher struct {
	cfg config.Browser
}

func NewLauncher(cfg config.Browser) *Launcher {
	return &Launcher{cfg: cfg}
}

// Launch starts a browser. The browser is not bound to ctx: it lives until Close is called.
func (l *Launcher) Launch(ctx context.Context, opts services.LaunchOptions) (services.Browser, error) {
	launch := launcher.New().
		Bin(l.cfg.Bin).
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox)

	if l.cfg.NoSandbox {
		launch = launch.Set(flags.Flag("disable-setuid-sandbox"))
	}
	if opts.UserDataDir != "" {
		launch = launch.UserDataDir(opts.UserDataDir)
	}
	if opts.ExtensionDir != "" {
		launch = launch.
			Set(flags.Flag("disable-extensions-except"), opts.ExtensionDir).
			Set(flags.Flag("load-extension"), opts.ExtensionDir)
	}
	if opts.ProxyServer != "" {
		launch = launch.Proxy(opts.ProxyServer)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome %s: %w", l.cfg.Bin, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		launch.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	bctx, cancel := context.WithCancel(context.Background())
	return &Browser{
		browser:   b,
		launcher:  launch,
		temporary: opts.UserDataDir == "",
		ctx:       bctx,
		cancel:    cancel,
	}, nil
}

// Browser wraps a connected rod browser.
type Browser struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	temporary bool

	ctx    context.Context
	cancel context.CancelFunc

	auth proxyAuth
}

func (b *Browser) Pages() ([]services.Page, error) {
	pages, err := b.browser.Pages()
	if err != nil {
		return nil, err
	}

	result := make([]services.Page, 0, len(pages))
	for _, p := range pages {
		result = append(result, &Page{page: p, browser: b})
	}
	return result, nil
}

func (b *Browser) NewPage() (services.Page, error) {
	p, err := b.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, err
	}
	return &Page{page: p, browser: b}, nil
}

// BuildID extracts the build from the product string, "Chrome/120.0.6099.109" gives "120.0.6099.109".
func (b *Browser) BuildID() (string, error) {
	v, err := b.browser.Version()
	if err != nil {
		return "", err
	}
	_, build, ok := strings.Cut(v.Product, "/")
	if !ok || build == "" {
		return "", fmt.Errorf("unexpected product version %q", v.Product)
	}
	return build, nil
}

// Close closes the browser. Profile directories are kept; temporary ones are removed.
func (b *Browser) Close() error {
	b.cancel()
	err := b.browser.Close()
	if err != nil {
		b.launcher.Kill()
	}
	if b.temporary {
		b.launcher.Cleanup()
	}
	return err
}

// handleAuth answers proxy auth challenges of every page of the browser with the last credential
// set. The interception runs until the browser is closed.
func (b *Browser) handleAuth(cred models.ProxyCredential) error {
	return b.auth.ensure(cred, b.intercept)
}

func (b *Browser) intercept() error {
	watcher := b.browser.Context(b.ctx)
	if err := (proto.FetchEnable{HandleAuthRequests: true}).Call(watcher); err != nil {
		return fmt.Errorf("enable request interception: %w", err)
	}

	wait := watcher.EachEvent(func(e *proto.FetchRequestPaused) {
		go func() {
			_ = proto.FetchContinueRequest{RequestID: e.RequestID}.Call(watcher)
		}()
	}, func(e *proto.FetchAuthRequired) {
		c := b.auth.credential()
		go func() {
			err := proto.FetchContinueWithAuth{
				RequestID: e.RequestID,
				AuthChallengeResponse: &proto.FetchAuthChallengeResponse{
					Response: proto.FetchAuthChallengeResponseResponseProvideCredentials,
					Username: c.Username,
					Password: c.Password,
				},
			}.Call(watcher)
			if err != nil {
				zap.S().Named("browser").Debugw("failed to answer proxy auth", "error", err)
			}
		}()
	})
	go wait()

	return nil
}

// proxyAuth holds the credential answered to auth challenges. Interception is enabled on the
// first successful call; a failed enable is retried by the next call.
type proxyAuth struct {
	mu      sync.Mutex
	enabled bool
	cred    models.ProxyCredential
}

func (a *proxyAuth) ensure(cred models.ProxyCredential, enable func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cred = cred
	if a.enabled {
		return nil
	}
	if err := enable(); err != nil {
		return err
	}
	a.enabled = true
	return nil
}

func (a *proxyAuth) credential() models.ProxyCredential {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cred
}

// Page wraps a rod page.
type Page struct {
	page    *rod.Page
	browser *Browser
}

func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *Page) Authenticate(cred models.ProxyCredential) error {
	return p.browser.handleAuth(cred)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	return pg.WaitLoad()
}

func (p *Page) HasCookie(name string) (bool, error) {
	cookies, err := p.page.Cookies(nil)
	if err != nil {
		return false, err
	}
	for _, c := range cookies {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (p *Page) Has(selector string) (bool, error) {
	has, _, err := p.page.Has(selector)
	return has, err
}

func (p *Page) WaitVisible(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (p *Page) Text(selector string) (string, error) {
	el, err := p.element(p.page, selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (p *Page) Input(selector, text string) error {
	el, err := p.element(p.page, selector)
	if err != nil {
		return err
	}
	return el.Input(text)
}

func (p *Page) Click(selector string) error {
	el, err := p.element(p.page, selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *Page) ClickAndWait(ctx context.Context, selector string) error {
	pg := p.page.Context(ctx)
	el, err := p.element(pg, selector)
	if err != nil {
		return err
	}

	wait := pg.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	wait()

	return ctx.Err()
}

func (p *Page) Close() error {
	return p.page.Close()
}

// element looks selector up without waiting for it.
func (p *Page) element(pg *rod.Page, selector string) (*rod.Element, error) {
	has, el, err := pg.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return el, nil
}
