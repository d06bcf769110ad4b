package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/ecordell/optgen/helpers"
	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	v1 "github.com/tupyy/fleet-agent/api/v1"
	"github.com/tupyy/fleet-agent/internal/browser"
	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/extension"
	"github.com/tupyy/fleet-agent/internal/handlers"
	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/registry"
	"github.com/tupyy/fleet-agent/internal/server"
	"github.com/tupyy/fleet-agent/internal/services"
	"github.com/tupyy/fleet-agent/internal/store"
	"github.com/tupyy/fleet-agent/internal/store/migrations"
)

const downloadTimeout = 5 * time.Minute

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <extension-dir> <profile-root> [<proxy> <username> <password>]...",
		Short: "Run the browser fleet",
		Example: `  # Run two sessions, each behind its own proxy
  fleet-agent run /data/ext /data/profiles \
    10.0.0.1:3128:puser:ppass alice@example.com secret1 \
    10.0.0.2:3128:puser:ppass bob@example.com secret2

  # Read the accounts from a file and keep the status database on disk
  fleet-agent run /data/ext /data/profiles --accounts-file accounts.yaml --data-folder /data

  # Run headless without the status API
  fleet-agent run /data/ext /data/profiles --accounts-file accounts.yaml --browser-headless --server-enabled=false`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Fleet.ExtensionDir = args[0]
			cfg.Fleet.ProfileRoot = args[1]

			accounts, err := loadAccounts(args[2:], cfg.Fleet.AccountsFile)
			if err != nil {
				return err
			}

			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			zap.S().Infow("using configuration",
				"fleet", helpers.Flatten(cfg.Fleet.DebugMap()),
				"browser", helpers.Flatten(cfg.Browser.DebugMap()),
				"extension", helpers.Flatten(cfg.Extension.DebugMap()),
				"server", helpers.Flatten(cfg.Server.DebugMap()),
				"accounts", len(accounts),
			)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
			defer cancel()

			profiles := services.NewProfiles(cfg.Fleet.ProfileRoot, len(accounts))
			if err := profiles.EnsureAll(); err != nil {
				return fmt.Errorf("create profile directories: %w", err)
			}

			st, err := openStore(ctx, cfg.DataFolder)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			// init services
			launcher := browser.NewLauncher(cfg.Browser)
			marker := extension.NewMarker(cfg.Fleet.ExtensionDir)
			webStore := registry.NewWebStore(cfg.Extension, launcher, &http.Client{Timeout: downloadTimeout})
			updater := services.NewUpdater(cfg.Fleet.ExtensionDir, cfg.Extension, webStore, extension.NewExtractor(), marker, st)

			supervisor := services.NewSupervisor(cfg.Fleet, profiles, func(ctx context.Context) error {
				return services.NewFleet(cfg.Fleet, cfg.Extension, accounts, profiles, launcher, updater, st).Run(ctx)
			})

			wg := sync.WaitGroup{}
			if cfg.Server.Enabled {
				h := handlers.New(st.Sessions(), st.Updates(), marker)
				srv, err := server.NewServer(cfg.Server, func(router *gin.RouterGroup) {
					v1.RegisterHandlers(router, h)
				})
				if err != nil {
					return err
				}

				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := srv.Start(); err != nil {
						zap.S().Errorw("status api stopped", "error", err)
					}
				}()

				go func() {
					<-ctx.Done()
					stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer stopCancel()
					_ = srv.Stop(stopCtx)
				}()
			}

			runErr := supervisor.Run(ctx)
			cancel()
			wg.Wait()

			if runErr != nil {
				return runErr
			}

			zap.S().Info("fleet stopped")
			return nil
		},
	}

	registerFlags(runCmd, cfg)

	return runCmd
}

// loadAccounts reads the command line triples followed by the accounts file entries.
func loadAccounts(args []string, accountsFile string) ([]models.SessionConfig, error) {
	var accounts []models.SessionConfig

	if len(args) > 0 || accountsFile == "" {
		parsed, err := models.ParseAccounts(args)
		if err != nil {
			return nil, err
		}
		accounts = parsed
	}

	if accountsFile != "" {
		fromFile, err := models.LoadAccountsFile(accountsFile, len(accounts))
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, fromFile...)
	}

	if len(accounts) == 0 {
		return nil, models.NewConfigError("accounts", models.ErrNotEnoughArguments)
	}

	return accounts, nil
}

// openStore opens the status database in dataFolder, in memory when dataFolder is empty, and
// brings its schema up to date.
func openStore(ctx context.Context, dataFolder string) (*store.Store, error) {
	dbPath := ":memory:"
	if dataFolder != "" {
		dbPath = filepath.Join(dataFolder, "fleet.duckdb")
	} else {
		zap.S().Warn("data-folder not set, using in-memory database (status will not persist)")
	}

	db, err := store.NewDB(dbPath)
	if err != nil {
		return nil, err
	}
	st := store.NewStore(db)

	if _, err := migrations.Run(ctx, db); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return st, nil
}

func registerFlags(cmd *cobra.Command, config *config.Configuration) {
	nfs := cobrautil.NewNamedFlagSets(cmd)

	fleetFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Fleet"))
	registerFleetFlags(fleetFlagSet, config)

	browserFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Browser"))
	registerBrowserFlags(browserFlagSet, config)

	extensionFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Extension"))
	registerExtensionFlags(extensionFlagSet, config)

	serverFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Server"))
	registerServerFlags(serverFlagSet, config)

	nfs.AddFlagSets(cmd)
}

func validateConfiguration(cfg *config.Configuration) error {
	f := cfg.Fleet

	if f.ExtensionDir == "" {
		return models.NewConfigError("extension-dir", errors.New("cannot be empty"))
	}
	if f.ProfileRoot == "" {
		return models.NewConfigError("profile-root", errors.New("cannot be empty"))
	}

	for name, d := range map[string]time.Duration{
		"login-check-interval":        f.LoginCheckInterval,
		"connectivity-check-interval": f.ConnectivityCheckInterval,
		"navigation-timeout":          f.NavigationTimeout,
	} {
		if d <= 0 {
			return models.NewConfigError(name, fmt.Errorf("must be positive, got %s", d))
		}
	}
	if f.FastPassJitter < 0 {
		return models.NewConfigError("fast-pass-jitter", fmt.Errorf("must not be negative, got %s", f.FastPassJitter))
	}
	if f.RetryDelay < 0 {
		return models.NewConfigError("retry-delay", fmt.Errorf("must not be negative, got %s", f.RetryDelay))
	}
	if f.UpdateCheckMultiplier < 1 {
		return models.NewConfigError("update-check-multiplier", fmt.Errorf("must be at least 1, got %d", f.UpdateCheckMultiplier))
	}
	if f.MaxAttempts < 1 {
		return models.NewConfigError("max-attempts", fmt.Errorf("must be at least 1, got %d", f.MaxAttempts))
	}

	if cfg.Browser.Bin == "" {
		return models.NewConfigError("browser-bin", errors.New("cannot be empty"))
	}
	if cfg.Extension.ID == "" {
		return models.NewConfigError("extension-id", errors.New("cannot be empty"))
	}
	if cfg.Extension.Name == "" {
		return models.NewConfigError("extension-name", errors.New("cannot be empty"))
	}

	if cfg.Server.Enabled {
		switch cfg.Server.Mode {
		case server.ProductionServer, server.DevServer:
		default:
			return models.NewConfigError("server-mode", fmt.Errorf("invalid mode %q: must be %q or %q", cfg.Server.Mode, server.ProductionServer, server.DevServer))
		}
		if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
			return models.NewConfigError("server-http-port", fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.Server.HTTPPort))
		}
	}

	return nil
}

func registerFleetFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.Fleet.AccountsFile, "accounts-file", config.Fleet.AccountsFile, "Path to a yaml file with more accounts")
	flagSet.StringVar(&config.DataFolder, "data-folder", config.DataFolder, "Path to the folder of the status database. In memory if empty")
	flagSet.DurationVar(&config.Fleet.LoginCheckInterval, "login-check-interval", config.Fleet.LoginCheckInterval, "Interval between login checks")
	flagSet.IntVar(&config.Fleet.UpdateCheckMultiplier, "update-check-multiplier", config.Fleet.UpdateCheckMultiplier, "Check for extension updates every N login checks")
	flagSet.DurationVar(&config.Fleet.ConnectivityCheckInterval, "connectivity-check-interval", config.Fleet.ConnectivityCheckInterval, "Interval between agent connectivity checks")
	flagSet.DurationVar(&config.Fleet.FastPassJitter, "fast-pass-jitter", config.Fleet.FastPassJitter, "Maximum random pause between sessions during a connectivity check")
	flagSet.DurationVar(&config.Fleet.NavigationTimeout, "navigation-timeout", config.Fleet.NavigationTimeout, "Maximum wait for a page navigation")
	flagSet.IntVar(&config.Fleet.MaxAttempts, "max-attempts", config.Fleet.MaxAttempts, "Consecutive failed runs before the profiles are recreated")
	flagSet.DurationVar(&config.Fleet.RetryDelay, "retry-delay", config.Fleet.RetryDelay, "Pause between failed runs")
}

func registerBrowserFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.Browser.Bin, "browser-bin", config.Browser.Bin, "Path of the browser executable")
	flagSet.BoolVar(&config.Browser.Headless, "browser-headless", config.Browser.Headless, "Run the browsers headless")
	flagSet.BoolVar(&config.Browser.NoSandbox, "browser-no-sandbox", config.Browser.NoSandbox, "Disable the browser sandbox")
}

func registerExtensionFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.Extension.ID, "extension-id", config.Extension.ID, "Identifier of the agent extension")
	flagSet.StringVar(&config.Extension.Name, "extension-name", config.Extension.Name, "Directory name the extension is unpacked into")
	flagSet.StringVar(&config.Extension.PagePath, "extension-page", config.Extension.PagePath, "Path of the agent page inside the extension")
	flagSet.StringVar(&config.Extension.LoginURL, "extension-login-url", config.Extension.LoginURL, "URL of the account login page")
	flagSet.StringVar(&config.Extension.AuthCookie, "extension-auth-cookie", config.Extension.AuthCookie, "Cookie set once the account is logged in")
	flagSet.StringVar(&config.Extension.StoreURL, "extension-store-url", config.Extension.StoreURL, "Store listing the latest extension version")
	flagSet.StringVar(&config.Extension.DownloadURL, "extension-download-url", config.Extension.DownloadURL, "Endpoint serving the extension package")
	flagSet.StringVar(&config.Extension.Selectors.Username, "extension-username-selector", config.Extension.Selectors.Username, "Selector of the login form username field")
	flagSet.StringVar(&config.Extension.Selectors.Password, "extension-password-selector", config.Extension.Selectors.Password, "Selector of the login form password field")
	flagSet.StringVar(&config.Extension.Selectors.Submit, "extension-submit-selector", config.Extension.Selectors.Submit, "Selector of the login form submit button")
	flagSet.StringVar(&config.Extension.Selectors.AgentLoading, "extension-loading-selector", config.Extension.Selectors.AgentLoading, "Selector of the agent loading indicator")
	flagSet.StringVar(&config.Extension.Selectors.AgentStatus, "extension-status-selector", config.Extension.Selectors.AgentStatus, "Selector of the agent connection status")
	flagSet.StringVar(&config.Extension.Selectors.AgentReconnect, "extension-reconnect-selector", config.Extension.Selectors.AgentReconnect, "Selector of the agent reconnect button")
	flagSet.StringVar(&config.Extension.Selectors.StoreVersion, "extension-store-version-selector", config.Extension.Selectors.StoreVersion, "Selector of the version on the store listing")
}

func registerServerFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.BoolVar(&config.Server.Enabled, "server-enabled", config.Server.Enabled, "Serve the status API")
	flagSet.IntVar(&config.Server.HTTPPort, "server-http-port", config.Server.HTTPPort, "Port on which the status API is listening")
	flagSet.StringVar(&config.Server.Mode, "server-mode", config.Server.Mode, "Server mode: either prod or dev")
}
