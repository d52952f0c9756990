package root

import (
	"github.com/spf13/cobra"

	configcmd "github.com/schmitthub/relpub/internal/cmd/config"
	"github.com/schmitthub/relpub/internal/cmd/plan"
	"github.com/schmitthub/relpub/internal/cmd/publish"
	versioncmd "github.com/schmitthub/relpub/internal/cmd/version"
	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/logger"
)

// NewCmdRoot creates the root command for the relpub CLI.
func NewCmdRoot(f *cmdutil.Factory, version, buildDate string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "relpub",
		Short: "Publish service container images under a release tag",
		Long: `relpub tags the locally built image of every configured service, and of its
_debug variant, with a release tag and pushes them to the remote registry.

Quick start:
  relpub config init      # Write relpub.yaml with the default service catalogue
  relpub plan v0.12.0     # Show the tag and push steps
  relpub publish v0.12.0  # Tag and push every image`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			"versionInfo": versioncmd.Format(version, buildDate),
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f)

			logger.Debug().
				Str("version", f.Version).
				Str("workdir", f.WorkDir).
				Bool("debug", f.Debug).
				Msg("relpub starting")

			return nil
		},
		Version: f.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "D", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to the configuration file (default: ./"+config.ConfigFileName+")")
	cmd.PersistentFlags().StringVarP(&f.WorkDir, "workdir", "w", f.WorkDir, "Directory to read configuration and git tags from")

	cmd.SetVersionTemplate(versioncmd.Format(version, buildDate))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cmdutil.FlagErrorWrap(err)
	})

	cmd.AddCommand(publish.NewCmdPublish(f, nil))
	cmd.AddCommand(plan.NewCmdPlan(f, nil))
	cmd.AddCommand(configcmd.NewCmdConfig(f))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, buildDate))

	return cmd, nil
}

// initializeLogger sets up the logger with file logging if possible.
// Falls back to console-only logging on any errors.
func initializeLogger(f *cmdutil.Factory) {
	// Configuration errors surface from the command itself; here they only
	// disable file logging.
	cfg, err := config.NewLoader(f.WorkDir, f.ConfigPath).Load()
	if err != nil {
		logger.Init(f.Debug)
		logger.Debug().Err(err).Msg("file logging unavailable: failed to load config")
		return
	}

	logsDir, err := cfg.Logging.LogsDir()
	if err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to get logs directory")
		return
	}

	if err := logger.InitWithFile(f.Debug, logsDir, cfg.Logging.LoggerConfig()); err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to initialize file writer")
	}
}
