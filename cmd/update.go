package cmd

import (
	"context"
	"errors"
	"net/http"
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
	"github.com/tupyy/fleet-agent/internal/extension"
	"github.com/tupyy/fleet-agent/internal/models"
	"github.com/tupyy/fleet-agent/internal/registry"
	"github.com/tupyy/fleet-agent/internal/services"
)

func NewUpdateCommand(cfg *config.Configuration) *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update <extension-dir>",
		Short: "Install the latest agent extension when the installed one is outdated",
		Example: `  # Check the store and update the extension kept in /data/ext
  fleet-agent update /data/ext

  # Record the check in the status database
  fleet-agent update /data/ext --data-folder /data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Fleet.ExtensionDir = args[0]

			if cfg.Fleet.ExtensionDir == "" {
				return models.NewConfigError("extension-dir", errors.New("cannot be empty"))
			}
			if cfg.Extension.Name == "" {
				return models.NewConfigError("extension-name", errors.New("cannot be empty"))
			}

			zap.S().Infow("using configuration",
				"browser", helpers.Flatten(cfg.Browser.DebugMap()),
				"extension", helpers.Flatten(cfg.Extension.DebugMap()),
			)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
			defer cancel()

			st, err := openStore(ctx, cfg.DataFolder)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			webStore := registry.NewWebStore(cfg.Extension, browser.NewLauncher(cfg.Browser), &http.Client{Timeout: downloadTimeout})

			result, err := updateExtension(ctx, cfg, webStore, st)
			if err != nil {
				return err
			}

			zap.S().Infow("update check done",
				"installed", result.InstalledVersion,
				"latest", result.LatestVersion,
				"decision", result.Decision,
				"updated", result.Installed,
			)
			return nil
		},
	}

	nfs := cobrautil.NewNamedFlagSets(updateCmd)
	fleetFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Fleet"))
	fleetFlagSet.StringVar(&cfg.DataFolder, "data-folder", cfg.DataFolder, "Path to the folder of the status database. In memory if empty")
	registerBrowserFlags(nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Browser")), cfg)
	registerExtensionFlags(nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Extension")), cfg)
	nfs.AddFlagSets(updateCmd)

	return updateCmd
}

// updateExtension runs the update gate once against the configured extension directory.
func updateExtension(ctx context.Context, cfg *config.Configuration, reg services.Registry, recorder services.StatusRecorder) (models.UpdateResult, error) {
	marker := extension.NewMarker(cfg.Fleet.ExtensionDir)
	updater := services.NewUpdater(cfg.Fleet.ExtensionDir, cfg.Extension, reg, extension.NewExtractor(), marker, recorder)
	return updater.Check(ctx)
}
