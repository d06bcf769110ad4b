package models

import "time"

type UpdateDecision string

const (
	UpdateDecisionUpToDate     UpdateDecision = "up_to_date"
	UpdateDecisionNeedsInstall UpdateDecision = "needs_install"
)

// DecideUpdate compares the installed version marker against the latest version. Versions are
// opaque: only exact equality counts as up to date.
func DecideUpdate(installed string, present bool, latest string) UpdateDecision {
	if !present || installed == "" {
		return UpdateDecisionNeedsInstall
	}
	if installed == latest {
		return UpdateDecisionUpToDate
	}
	return UpdateDecisionNeedsInstall
}

// Release is what the package registry reports as the current agent package.
type Release struct {
	Version     string
	BuildID     string
	DownloadURL string
}

// UpdateResult records one pass through the update gate.
type UpdateResult struct {
	CheckedAt        time.Time
	InstalledVersion string
	LatestVersion    string
	Decision         UpdateDecision
	Installed        bool
	Digest           string
	Error            string
}
