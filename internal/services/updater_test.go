package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/services"
)

var _ = Describe("Updater", func() {
	var (
		ctx       context.Context
		registry  *MockRegistry
		extractor *MockExtractor
		marker    *MockMarker
		recorder  *MockRecorder
		updater   *services.Updater
		extDir    string
	)

	BeforeEach(func() {
		ctx = context.Background()
		registry = &MockRegistry{release: models.Release{Version: "4.2.0", BuildID: "120.0.6099.109"}}
		extractor = &MockExtractor{}
		marker = &MockMarker{}
		recorder = NewMockRecorder()
		extDir = GinkgoT().TempDir()
		updater = services.NewUpdater(extDir, testExtension(), registry, extractor, marker, recorder)
	})

	It("should install into the extension directory", func() {
		Expect(updater.InstallDir()).To(Equal(filepath.Join(extDir, "grass-extension")))
	})

	It("should do nothing when the installed version is the latest", func() {
		marker.version, marker.present = "4.2.0", true
		Expect(os.MkdirAll(updater.InstallDir(), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(updater.InstallDir(), "manifest.json"), []byte("{}"), 0o644)).To(Succeed())

		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Decision).To(Equal(models.UpdateDecisionUpToDate))
		Expect(result.Installed).To(BeFalse())
		Expect(registry.downloads).To(BeEmpty())
		Expect(marker.writes).To(BeEmpty())
		Expect(recorder.Updates()).To(HaveLen(1))
	})

	It("should reinstall when the install directory is missing", func() {
		marker.version, marker.present = "4.2.0", true

		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Decision).To(Equal(models.UpdateDecisionNeedsInstall))
		Expect(result.Installed).To(BeTrue())
		Expect(extractor.extracted).To(HaveLen(1))
		Expect(marker.writes).To(Equal([]string{"4.2.0"}))
	})

	It("should reinstall when the install directory is empty", func() {
		marker.version, marker.present = "4.2.0", true
		Expect(os.MkdirAll(updater.InstallDir(), 0o755)).To(Succeed())

		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Decision).To(Equal(models.UpdateDecisionNeedsInstall))
		Expect(registry.downloads).To(HaveLen(1))
	})

	It("should install when no version is installed", func() {
		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Decision).To(Equal(models.UpdateDecisionNeedsInstall))
		Expect(result.Installed).To(BeTrue())
		Expect(result.Digest).To(Equal("digest"))
		Expect(registry.downloads).To(Equal([]string{filepath.Join(extDir, "grass-extension.crx")}))
		Expect(extractor.extracted).To(HaveLen(1))
		Expect(marker.writes).To(Equal([]string{"4.2.0"}))
	})

	It("should install when the installed version differs", func() {
		marker.version, marker.present = "4.1.9", true

		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.InstalledVersion).To(Equal("4.2.0"))
		Expect(marker.writes).To(Equal([]string{"4.2.0"}))
	})

	It("should treat an unreadable marker as absent", func() {
		marker.version, marker.present, marker.readErr = "4.2.0", true, errors.New("permission denied")

		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Installed).To(BeTrue())
	})

	It("should still write the marker when extraction fails", func() {
		extractor.err = errors.New("corrupt archive")

		result, err := updater.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Installed).To(BeTrue())
		Expect(result.Error).To(ContainSubstring("corrupt archive"))
		Expect(marker.writes).To(Equal([]string{"4.2.0"}))
	})

	It("should fail and record the error when the registry is unreachable", func() {
		registry.latestErr = errors.New("timeout")

		_, err := updater.Check(ctx)
		Expect(err).To(MatchError(services.ErrUpdate))

		updates := recorder.Updates()
		Expect(updates).To(HaveLen(1))
		Expect(updates[0].Error).To(ContainSubstring("timeout"))
	})

	It("should fail on an empty version", func() {
		registry.release.Version = ""

		_, err := updater.Check(ctx)
		Expect(err).To(MatchError(services.ErrUpdate))
		Expect(registry.downloads).To(BeEmpty())
	})

	It("should not write the marker when the download fails", func() {
		registry.downloadErr = errors.New("404")

		_, err := updater.Check(ctx)
		Expect(err).To(MatchError(services.ErrUpdate))
		Expect(marker.writes).To(BeEmpty())
		Expect(extractor.extracted).To(BeEmpty())
	})

	It("should fail when the marker cannot be written", func() {
		marker.writeErr = errors.New("disk full")

		result, err := updater.Check(ctx)
		Expect(err).To(MatchError(services.ErrUpdate))
		Expect(result.Installed).To(BeFalse())
	})
})
