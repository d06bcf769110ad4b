package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/services"
)

var _ = Describe("Fleet", func() {
	var (
		ctx      context.Context
		cancel   context.CancelFunc
		cfg      config.Fleet
		accounts []models.SessionConfig
		profiles *services.Profiles
		launcher *MockLauncher
		updater  *MockUpdateGate
		recorder *MockRecorder
		fleet    *services.Fleet
		done     chan error
		stopped  chan struct{}
	)

	start := func() {
		f := services.NewFleet(cfg, testExtension(), accounts, profiles, launcher, updater, recorder)
		fleet = f
		ch := make(chan error, 1)
		exited := make(chan struct{})
		done, stopped = ch, exited
		runCtx := ctx
		go func() {
			defer close(exited)
			ch <- f.Run(runCtx)
		}()
	}

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())

		cfg = config.Fleet{
			LoginCheckInterval:        time.Hour,
			UpdateCheckMultiplier:     4,
			ConnectivityCheckInterval: time.Hour,
			NavigationTimeout:         time.Second,
		}
		accounts = []models.SessionConfig{testAccount(0), testAccount(1)}

		profiles = services.NewProfiles(GinkgoT().TempDir(), len(accounts))
		Expect(profiles.EnsureAll()).To(Succeed())

		launcher = NewMockLauncher(healthyBrowser)
		updater = &MockUpdateGate{dir: "/ext/grass-extension"}
		recorder = NewMockRecorder()
		fleet = nil
		done, stopped = nil, nil
	})

	AfterEach(func() {
		cancel()
		if stopped != nil {
			Eventually(stopped).Should(BeClosed())
		}
	})

	Describe("Run", func() {
		It("should launch and log in every session on start", func() {
			start()

			Eventually(func() models.SessionState { return recorder.State(1) }).Should(Equal(models.SessionStateLoggedIn))
			Expect(recorder.State(0)).To(Equal(models.SessionStateLoggedIn))
			Expect(updater.Calls()).To(Equal(1))

			launches := launcher.Launches()
			Expect(launches).To(HaveLen(2))
			Expect(launches[0].UserDataDir).To(Equal(profiles.Dir(0)))
			Expect(launches[1].UserDataDir).To(Equal(profiles.Dir(1)))
			Expect(launches[0].ExtensionDir).To(Equal("/ext/grass-extension"))

			status, ok := recorder.Session(0)
			Expect(ok).To(BeTrue())
			Expect(status.RunID).To(Equal(fleet.RunID()))
			Expect(status.Connectivity).To(Equal(models.ConnectivityConnected))

			snapshot := fleet.Status()
			Expect(snapshot).To(HaveLen(2))
			Expect(snapshot[0].Index).To(Equal(0))
			Expect(snapshot[1].State).To(Equal(models.SessionStateLoggedIn))
		})

		It("should stop cleanly when cancelled", func() {
			opts := goleak.IgnoreCurrent()

			start()
			Eventually(func() models.SessionState { return recorder.State(1) }).Should(Equal(models.SessionStateLoggedIn))

			cancel()
			Eventually(done).Should(Receive(BeNil()))

			for _, b := range launcher.Browsers() {
				Expect(b.IsClosed()).To(BeTrue())
			}
			goleak.VerifyNone(GinkgoT(), opts)
		})

		It("should skip sessions without a profile directory", func() {
			Expect(os.RemoveAll(filepath.Join(profiles.Root(), "1"))).To(Succeed())

			start()
			Eventually(func() models.SessionState { return recorder.State(0) }).Should(Equal(models.SessionStateLoggedIn))

			Expect(launcher.Launches()).To(HaveLen(1))
			status, ok := recorder.Session(1)
			Expect(ok).To(BeTrue())
			Expect(status.State).To(Equal(models.SessionStateUnlaunched))
		})

		It("should fail the run when a browser cannot be launched", func() {
			launcher.SetError(errors.New("no chrome"))
			start()

			var err error
			Eventually(done).Should(Receive(&err))
			Expect(err).To(MatchError(services.ErrLaunch))
			Expect(errors.Is(err, services.ErrMaintenanceLoop)).To(BeFalse())
		})

		It("should keep going when the update gate fails", func() {
			updater.err = errors.New("store unreachable")
			start()

			Eventually(func() models.SessionState { return recorder.State(1) }).Should(Equal(models.SessionStateLoggedIn))
			Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
		})

		It("should check for updates every N login ticks", func() {
			cfg.LoginCheckInterval = 20 * time.Millisecond
			cfg.UpdateCheckMultiplier = 2
			start()

			Eventually(updater.Calls, time.Second).Should(BeNumerically(">=", 3))
			Eventually(func() int { return len(launcher.Launches()) }, time.Second).Should(BeNumerically(">=", 6))
		})

		It("should report a loop failure once the initial pass succeeded", func() {
			cfg.LoginCheckInterval = 20 * time.Millisecond
			start()
			Eventually(func() models.SessionState { return recorder.State(1) }).Should(Equal(models.SessionStateLoggedIn))

			for _, b := range launcher.Browsers() {
				b.Configure(func(b *MockBrowser) { b.pagesErr = errors.New("connection lost") })
			}

			var err error
			Eventually(done, time.Second).Should(Receive(&err))
			Expect(err).To(MatchError(services.ErrMaintenanceLoop))
			Expect(err).To(MatchError(services.ErrBrowserUnavailable))
		})

		It("should reopen the agent page on connectivity ticks", func() {
			cfg.ConnectivityCheckInterval = 20 * time.Millisecond
			start()
			Eventually(func() models.SessionState { return recorder.State(1) }).Should(Equal(models.SessionStateLoggedIn))

			b := launcher.Browsers()[0]
			b.Configure(func(b *MockBrowser) {
				for _, p := range b.pages {
					p.closed = true
				}
			})

			Eventually(func() int { return b.OpenPages(agentURL()) }, time.Second).Should(Equal(1))
		})
	})

	Describe("RefreshConnectivity", func() {
		It("should skip while a login pass is in flight", func() {
			launcher = NewMockLauncher(func(b *MockBrowser) {
				healthyBrowser(b)
				b.block = make(chan struct{})
			})
			start()

			Eventually(func() int { return len(launcher.Browsers()) }).Should(Equal(2))
			first := launcher.Browsers()[0]
			Eventually(first.navigating).Should(Receive())

			calls := first.PagesCalls()
			ran, err := fleet.RefreshConnectivity(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeFalse())
			Expect(first.PagesCalls()).To(Equal(calls))
			Expect(first.Clicks()).To(BeEmpty())

			for _, b := range launcher.Browsers() {
				close(b.block)
			}
			Eventually(func() models.SessionState { return recorder.State(1) }).Should(Equal(models.SessionStateLoggedIn))

			Eventually(func() bool {
				ran, _ := fleet.RefreshConnectivity(ctx)
				return ran
			}).Should(BeTrue())
			Expect(first.PagesCalls()).To(BeNumerically(">", calls))
		})
	})
})
