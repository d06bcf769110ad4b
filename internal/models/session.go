package models

import "time"

// SessionState is the login state of a session.
type SessionState string

const (
	// SessionStateUnlaunched - no browser handle
	SessionStateUnlaunched SessionState = "unlaunched"
	// SessionStateLaunched - browser running, login not checked yet
	SessionStateLaunched SessionState = "launched"
	// SessionStateAuthCheckPending - login check in progress
	SessionStateAuthCheckPending SessionState = "auth_check_pending"
	// SessionStateLoggedIn - auth token present
	SessionStateLoggedIn SessionState = "logged_in"
	// SessionStateLoginFailed - auth token still missing after submitting credentials
	SessionStateLoginFailed SessionState = "login_failed"
)

// ConnectivityStatus is the agent connectivity overlay, meaningful once logged in.
type ConnectivityStatus string

const (
	ConnectivityUnknown      ConnectivityStatus = "unknown"
	ConnectivityConnected    ConnectivityStatus = "connected"
	ConnectivityDisconnected ConnectivityStatus = "disconnected"
	ConnectivityLoading      ConnectivityStatus = "loading"
)

// ConnectivityResult is the outcome of one connectivity check.
type ConnectivityResult struct {
	Status ConnectivityStatus
	// AgentPages is the number of agent pages found before canonicalization.
	AgentPages  int
	ClosedPages int
	Reconnected bool
	Err         error
}

// SessionStatus is a point-in-time view of a session.
type SessionStatus struct {
	Index        int
	Username     string
	ProxyHost    string
	State        SessionState
	Connectivity ConnectivityStatus
	LastLoginAt  time.Time
	LastCheckAt  time.Time
	LastError    string
	RunID        string
	UpdatedAt    time.Time
}
