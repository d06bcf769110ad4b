// Package v1 holds the wire types and routes of the fleet status API.
package v1

import "time"

type SessionState string

const (
	SessionStateUnlaunched       SessionState = "unlaunched"
	SessionStateLaunched         SessionState = "launched"
	SessionStateAuthCheckPending SessionState = "auth_check_pending"
	SessionStateLoggedIn         SessionState = "logged_in"
	SessionStateLoginFailed      SessionState = "login_failed"
)

type SessionConnectivity string

const (
	SessionConnectivityUnknown      SessionConnectivity = "unknown"
	SessionConnectivityConnected    SessionConnectivity = "connected"
	SessionConnectivityDisconnected SessionConnectivity = "disconnected"
	SessionConnectivityLoading      SessionConnectivity = "loading"
)

// Session is the status of one browser session.
type Session struct {
	Index        int                 `json:"index"`
	Username     string              `json:"username"`
	ProxyHost    string              `json:"proxyHost"`
	State        SessionState        `json:"state"`
	Connectivity SessionConnectivity `json:"connectivity"`
	LastLoginAt  *time.Time          `json:"lastLoginAt,omitempty"`
	LastCheckAt  *time.Time          `json:"lastCheckAt,omitempty"`
	LastError    *string             `json:"lastError,omitempty"`
	RunId        string              `json:"runId"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type SessionList struct {
	Sessions []Session `json:"sessions"`
}

type UpdateCheckDecision string

const (
	UpdateCheckDecisionUpToDate     UpdateCheckDecision = "up_to_date"
	UpdateCheckDecisionNeedsInstall UpdateCheckDecision = "needs_install"
)

// UpdateCheck is one run of the package update gate.
type UpdateCheck struct {
	CheckedAt        time.Time           `json:"checkedAt"`
	InstalledVersion string              `json:"installedVersion"`
	LatestVersion    string              `json:"latestVersion"`
	Decision         UpdateCheckDecision `json:"decision,omitempty"`
	Installed        bool                `json:"installed"`
	Digest           *string             `json:"digest,omitempty"`
	Error            *string             `json:"error,omitempty"`
}

type Extension struct {
	Installed bool         `json:"installed"`
	Version   *string      `json:"version,omitempty"`
	LastCheck *UpdateCheck `json:"lastCheck,omitempty"`
}

type UpdateCheckList struct {
	Checks []UpdateCheck `json:"checks"`
}

type Error struct {
	Error string `json:"error"`
}
