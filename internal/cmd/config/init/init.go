package init

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/iostreams"
	"github.com/schmitthub/relpub/internal/logger"
)

// InitOptions holds options for the config init command.
type InitOptions struct {
	IOStreams *iostreams.IOStreams
	WorkDir   string
	Force     bool
}

// NewCmdInit creates the config init command.
func NewCmdInit(f *cmdutil.Factory, runF func(context.Context, *InitOptions) error) *cobra.Command {
	opts := &InitOptions{
		IOStreams: f.IOStreams,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a relpub.yaml with the default settings",
		Example: `  # Write relpub.yaml into the current directory
  relpub config init

  # Replace an existing file
  relpub config init --force`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Read after flag parsing so --workdir applies.
			opts.WorkDir = f.WorkDir
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return initRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}

func initRun(_ context.Context, opts *InitOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()
	path := filepath.Join(opts.WorkDir, config.ConfigFileName)

	_, err := os.Stat(path)
	switch {
	case err == nil && !opts.Force:
		return cmdutil.FlagErrorf("%s already exists; use --force to overwrite it", path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(config.DefaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("wrote default configuration")

	fmt.Fprintf(ios.ErrOut, "%s Created %s\n", cs.SuccessIcon(), path)
	cmdutil.PrintNextSteps(ios,
		"Edit services and registry.remote_namespace for your project",
		"Run 'relpub config check' to validate it",
	)
	return nil
}
