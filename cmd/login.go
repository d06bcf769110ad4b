package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecordell/optgen/helpers"
	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/internal/browser"
	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/services"
)

var ErrLoginFailed = errors.New("login failed")

func NewLoginCommand(cfg *config.Configuration) *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login <profile-dir> <extension-dir> <proxy> <username> <password>",
		Short: "Log one browser profile in and open the agent page",
		Example: `  # Prepare a profile before adding it to the fleet
  fleet-agent login /data/profiles/0 /data/ext/grass-extension 10.0.0.1:3128:puser:ppass alice@example.com secret1`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := models.ParseAccounts(args[2:])
			if err != nil {
				return err
			}

			if cfg.Fleet.NavigationTimeout <= 0 {
				return models.NewConfigError("navigation-timeout", fmt.Errorf("must be positive, got %s", cfg.Fleet.NavigationTimeout))
			}

			zap.S().Infow("using configuration",
				"browser", helpers.Flatten(cfg.Browser.DebugMap()),
				"extension", helpers.Flatten(cfg.Extension.DebugMap()),
			)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
			defer cancel()

			state, err := loginProfile(ctx, cfg, browser.NewLauncher(cfg.Browser), args[0], args[1], accounts[0])
			if err != nil {
				return err
			}

			zap.S().Infow("profile logged in", "profile", args[0], "state", state)
			return nil
		},
	}

	nfs := cobrautil.NewNamedFlagSets(loginCmd)
	fleetFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Fleet"))
	fleetFlagSet.DurationVar(&cfg.Fleet.NavigationTimeout, "navigation-timeout", cfg.Fleet.NavigationTimeout, "Maximum wait for a page navigation")
	registerBrowserFlags(nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Browser")), cfg)
	registerExtensionFlags(nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Extension")), cfg)
	nfs.AddFlagSets(loginCmd)

	return loginCmd
}

// loginProfile launches a browser on profileDir and logs the account in, which also opens the
// agent page. The browser is closed before returning; the login survives in the profile.
func loginProfile(ctx context.Context, cfg *config.Configuration, launcher services.Launcher, profileDir, extensionDir string, account models.SessionConfig) (models.SessionState, error) {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return models.SessionStateUnlaunched, fmt.Errorf("create profile directory: %w", err)
	}

	session := services.NewSession(account, cfg.Extension, cfg.Fleet.NavigationTimeout)
	session.SetProfileDir(profileDir)

	if err := session.Launch(ctx, launcher, extensionDir); err != nil {
		return session.State(), err
	}
	defer func() {
		if err := session.Close(); err != nil {
			zap.S().Warnw("failed to close browser", "profile", profileDir, "error", err)
		}
	}()

	state, err := session.EnsureLoggedIn(ctx)
	if err != nil {
		return state, err
	}
	if state != models.SessionStateLoggedIn {
		return state, fmt.Errorf("%w: %s on profile %s", ErrLoginFailed, account.AccountUsername, profileDir)
	}

	return state, nil
}
