package services

import (
	"context"

	"github.com/tupyy/fleet-agent/internal/models"
)

// LaunchOptions are the launch-time arguments of one browser instance.
type LaunchOptions struct {
	UserDataDir  string
	ExtensionDir string
	// ProxyServer is applied at launch so every page of the browser inherits it.
	ProxyServer string
}

// Launcher starts isolated browser instances.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is one running browser instance.
type Browser interface {
	Pages() ([]Page, error)
	NewPage() (Page, error)
	// BuildID returns the engine build identifier, e.g. "120.0.6099.109".
	BuildID() (string, error)
	Close() error
}

// Page is one browser tab.
type Page interface {
	URL() string
	// Authenticate answers proxy authentication challenges of the page with cred.
	Authenticate(cred models.ProxyCredential) error
	// Navigate loads url and waits until the page settles or ctx expires.
	Navigate(ctx context.Context, url string) error
	HasCookie(name string) (bool, error)
	// Has reports whether selector is present right now, without waiting.
	Has(selector string) (bool, error)
	// WaitVisible waits for selector to appear or ctx to expire.
	WaitVisible(ctx context.Context, selector string) error
	Text(selector string) (string, error)
	Input(selector, text string) error
	Click(selector string) error
	// ClickAndWait clicks selector and waits for the navigation it triggers.
	ClickAndWait(ctx context.Context, selector string) error
	Close() error
}

// StatusRecorder persists session and update outcomes.
type StatusRecorder interface {
	SaveSession(ctx context.Context, status models.SessionStatus) error
	SaveUpdate(ctx context.Context, result models.UpdateResult) error
}

// Registry reports and serves the agent package.
type Registry interface {
	Latest(ctx context.Context) (models.Release, error)
	Download(ctx context.Context, release models.Release, dst string) (string, error)
}

// Extractor unpacks a downloaded package archive.
type Extractor interface {
	Extract(archive, dst string) error
}

// VersionMarker persists the installed package version.
type VersionMarker interface {
	Read() (string, bool, error)
	Write(version string) error
}
