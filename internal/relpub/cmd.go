package relpub

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/relpub/internal/cmd/factory"
	"github.com/schmitthub/relpub/internal/cmd/root"
	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/docker"
	"github.com/schmitthub/relpub/internal/iostreams"
	"github.com/schmitthub/relpub/internal/logger"
	"github.com/schmitthub/relpub/internal/signals"
)

// Build-time variables injected via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = ""
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Main is the entry point for the relpub CLI.
// It initializes the Factory, creates the root command, and executes it.
func Main() int {
	// Ensure logs are flushed on exit
	defer func() { _ = logger.CloseFileWriter() }()

	ctx, cancel := signals.SetupSignalContext(context.Background())
	defer cancel()

	f := factory.New(Version, Commit)

	rootCmd, err := root.NewCmdRoot(f, Version, BuildDate)
	if err != nil {
		fmt.Fprintf(f.IOStreams.ErrOut, "failed to create root command: %s\n", err)
		return exitError
	}

	cmd, err := rootCmd.ExecuteContextC(ctx)
	f.CloseStore()
	if err != nil {
		var intr *signals.InterruptError
		if errors.As(context.Cause(ctx), &intr) {
			err = fmt.Errorf("%w: %w", intr, err)
		}
		return handleError(f.IOStreams, cmd, err)
	}
	return exitOK
}

// handleError prints err for the user and picks the process exit status.
func handleError(ios *iostreams.IOStreams, cmd *cobra.Command, err error) int {
	cs := ios.ColorScheme()

	if errors.Is(err, cmdutil.SilentError) {
		return exitError
	}

	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) {
		fmt.Fprintln(ios.ErrOut, err)
		if cmd != nil {
			fmt.Fprintln(ios.ErrOut)
			fmt.Fprint(ios.ErrOut, cmd.UsageString())
		}
		return exitUsage
	}

	var dockerErr *docker.DockerError
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(ios.ErrOut, "%s Interrupted: %s\n", cs.FailureIcon(), err)
	case errors.As(err, &dockerErr):
		fmt.Fprintf(ios.ErrOut, "%s %s\n", cs.FailureIcon(), cs.Red(err.Error()))
		cmdutil.PrintNextSteps(ios, dockerErr.NextSteps...)
	default:
		fmt.Fprintf(ios.ErrOut, "%s %s\n", cs.FailureIcon(), cs.Red(err.Error()))
		if cmd != nil {
			cmdutil.PrintHelpHint(ios, cmd.CommandPath())
		}
	}

	var coder cmdutil.ExitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
	}
	return exitError
}
