package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
)

var ErrUpdate = errors.New("agent package update failed")

// Updater runs the package update gate: compare the installed marker against the registry and
// install the latest package when they differ.
type Updater struct {
	registry    Registry
	extractor   Extractor
	marker      VersionMarker
	recorder    StatusRecorder
	archivePath string
	installDir  string
}

func NewUpdater(extensionDir string, ext config.Extension, registry Registry, extractor Extractor, marker VersionMarker, recorder StatusRecorder) *Updater {
	return &Updater{
		registry:    registry,
		extractor:   extractor,
		marker:      marker,
		recorder:    recorder,
		archivePath: filepath.Join(extensionDir, ext.Name+".crx"),
		installDir:  filepath.Join(extensionDir, ext.Name),
	}
}

// InstallDir is the directory the browsers load the agent extension from.
func (u *Updater) InstallDir() string {
	return u.installDir
}

// Check runs the gate once. Extraction failures are logged and do not fail the check: a stale
// extension is still loaded. Registry, download and marker failures are returned so the next
// update cycle retries the whole gate.
func (u *Updater) Check(ctx context.Context) (result models.UpdateResult, err error) {
	log := zap.S().Named("updater")
	result.CheckedAt = time.Now()

	defer func() {
		if err != nil {
			result.Error = err.Error()
		}
		if recErr := u.recorder.SaveUpdate(ctx, result); recErr != nil {
			log.Warnw("failed to record update check", "error", recErr)
		}
	}()

	release, err := u.registry.Latest(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: get latest version: %w", ErrUpdate, err)
	}
	if release.Version == "" {
		return result, fmt.Errorf("%w: registry reported an empty version", ErrUpdate)
	}
	result.LatestVersion = release.Version

	installed, present, err := u.marker.Read()
	if err != nil {
		log.Warnw("failed to read installed version, assuming not installed", "error", err)
		installed, present = "", false
	}
	result.InstalledVersion = installed

	result.Decision = models.DecideUpdate(installed, present, release.Version)
	if result.Decision == models.UpdateDecisionUpToDate && !u.installed() {
		log.Warnw("install directory is missing or empty, reinstalling", "dir", u.installDir, "version", installed)
		result.Decision = models.UpdateDecisionNeedsInstall
	}
	if result.Decision == models.UpdateDecisionUpToDate {
		log.Infow("extension is up to date", "version", installed)
		return result, nil
	}

	log.Infow("extension needs install", "installed", installed, "latest", release.Version, "build", release.BuildID)

	digest, err := u.registry.Download(ctx, release, u.archivePath)
	if err != nil {
		return result, fmt.Errorf("%w: download %s: %w", ErrUpdate, release.Version, err)
	}
	result.Digest = digest
	log.Infow("extension downloaded", "path", u.archivePath, "blake3", digest)

	if err := u.extractor.Extract(u.archivePath, u.installDir); err != nil {
		log.Warnw("failed to extract extension, keeping the installed one", "error", err)
		result.Error = err.Error()
	} else {
		log.Infow("extension extracted", "dir", u.installDir)
	}

	if err := u.marker.Write(release.Version); err != nil {
		return result, fmt.Errorf("%w: write version marker: %w", ErrUpdate, err)
	}

	result.Installed = true
	result.InstalledVersion = release.Version
	log.Infow("extension updated", "version", release.Version)

	return result, nil
}

// installed reports whether the install directory holds an unpacked extension.
func (u *Updater) installed() bool {
	entries, err := os.ReadDir(u.installDir)
	return err == nil && len(entries) > 0
}
