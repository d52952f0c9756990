package check

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/relpub/internal/cmdutil"
	internalconfig "github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/iostreams"
	"github.com/schmitthub/relpub/internal/logger"
)

// CheckOptions holds options for the config check command.
type CheckOptions struct {
	IOStreams    *iostreams.IOStreams
	ConfigLoader func() *internalconfig.Loader
}

// NewCmdCheck creates the config check command.
func NewCmdCheck(f *cmdutil.Factory, runF func(context.Context, *CheckOptions) error) *cobra.Command {
	opts := &CheckOptions{
		IOStreams:    f.IOStreams,
		ConfigLoader: f.ConfigLoader,
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate relpub configuration",
		Long: `Loads relpub.yaml (or the file given with --config), applies RELPUB_*
environment overrides and validates the result.

Checks for:
  - A non-empty, duplicate-free service catalogue of valid image names
  - Valid local and remote repository namespaces
  - A known store backend, and a parsable command for the cli backend`,
		Example: `  # Validate configuration in current directory
  relpub config check

  # Validate a specific file
  relpub --config deploy/relpub.yaml config check`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return checkRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func checkRun(_ context.Context, opts *CheckOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	loader := opts.ConfigLoader()
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(ios.ErrOut, "%s Failed to load configuration\n", cs.FailureIcon())
		fmt.Fprintf(ios.ErrOut, "  %s\n", err)
		if internalconfig.IsConfigNotFound(err) {
			cmdutil.PrintNextSteps(ios,
				"Run 'relpub config init' to create "+internalconfig.ConfigFileName,
				"Or point --config at an existing file",
			)
		} else {
			cmdutil.PrintNextSteps(ios, "Check YAML syntax (indentation, colons, quotes)")
		}
		return cmdutil.SilentError
	}

	logger.Debug().
		Str("file", loader.ConfigFileUsed()).
		Int("services", len(cfg.Services)).
		Msg("configuration loaded")

	validator := internalconfig.NewValidator()
	if err := validator.Validate(cfg); err != nil {
		fmt.Fprintf(ios.ErrOut, "%s Configuration validation failed\n\n", cs.FailureIcon())

		var multiErr *internalconfig.MultiValidationError
		if errors.As(err, &multiErr) {
			for _, e := range multiErr.ValidationErrors() {
				fmt.Fprintf(ios.ErrOut, "  - %s\n", e)
			}
		} else {
			fmt.Fprintf(ios.ErrOut, "  %s\n", err)
		}

		cmdutil.PrintNextSteps(ios,
			"Review the errors above",
			"Edit "+internalconfig.ConfigFileName+" to fix the issues",
			"Run 'relpub config check' again",
		)
		return cmdutil.SilentError
	}

	for _, warning := range validator.Warnings() {
		fmt.Fprintf(ios.ErrOut, "%s %s\n", cs.WarningIcon(), warning)
	}

	source := loader.ConfigFileUsed()
	if source == "" {
		source = "(defaults)"
	}

	fmt.Fprintf(ios.ErrOut, "%s Configuration is valid\n\n", cs.SuccessIcon())
	fmt.Fprintf(ios.Out, "File:             %s\n", source)
	fmt.Fprintf(ios.Out, "Local namespace:  %s\n", cfg.Registry.LocalNamespace)
	fmt.Fprintf(ios.Out, "Remote namespace: %s\n", cfg.Registry.RemoteNamespace)
	fmt.Fprintf(ios.Out, "Backend:          %s\n", cfg.Store.Backend)
	if cfg.Store.Backend == internalconfig.BackendCLI {
		fmt.Fprintf(ios.Out, "Command:          %s\n", cfg.Store.Command)
	} else if cfg.Store.DockerConfig != "" {
		fmt.Fprintf(ios.Out, "Docker config:    %s\n", cfg.Store.DockerConfig)
	}
	fmt.Fprintf(ios.Out, "Services:         %s\n", strings.Join(cfg.Services, ", "))

	return nil
}
