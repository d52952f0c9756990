package publish

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/relpub/internal/cmd/plan"
	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/iostreams"
	"github.com/schmitthub/relpub/internal/logger"
	"github.com/schmitthub/relpub/internal/release"
)

// PublishOptions holds options for the publish command.
type PublishOptions struct {
	IOStreams  *iostreams.IOStreams
	Config     func() (*config.Config, error)
	ImageStore func(ctx context.Context, backend string) (release.ImageStore, error)
	CloseStore func()
	GitTag     func() (string, error)

	Tag     cmdutil.ReleaseTagFlags
	DryRun  bool
	Backend string
}

// NewCmdPublish creates the publish command.
func NewCmdPublish(f *cmdutil.Factory, runF func(context.Context, *PublishOptions) error) *cobra.Command {
	opts := &PublishOptions{
		IOStreams:  f.IOStreams,
		Config:     f.Config,
		ImageStore: f.ImageStore,
		CloseStore: f.CloseStore,
		GitTag:     f.GitTag,
	}

	cmd := &cobra.Command{
		Use:   "publish [RELEASE_TAG]",
		Short: "Tag and push every service image under a release tag",
		Long: `For each configured service, in order, tags <local>/<service>:latest as
<remote>/<service>:RELEASE_TAG and pushes it, then does the same for the
<service>_debug image.

The run stops at the first failed tag or push. Images already pushed stay
published; nothing is rolled back.`,
		Example: `  # Publish release v0.12.0
  relpub publish v0.12.0

  # Publish the tag at HEAD through the docker CLI
  relpub publish --from-git --backend cli

  # Show what would be pushed
  relpub publish v0.12.0 --dry-run`,
		Args: cmdutil.RequiresMaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Tag.SetArgs(args)
			if opts.Backend != "" && !slices.Contains(config.Backends, opts.Backend) {
				return cmdutil.FlagErrorf("invalid --backend %q: must be one of %s", opts.Backend, strings.Join(config.Backends, ", "))
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return publishRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Tag.FromGit, "from-git", false, "Use the tag pointing at HEAD as RELEASE_TAG")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the steps without tagging or pushing")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", `Image store: "engine" or "cli" (default from config)`)

	return cmd
}

func publishRun(ctx context.Context, opts *PublishOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	tag, err := opts.Tag.Resolve(opts.GitTag)
	if err != nil {
		return err
	}
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	backend := opts.Backend
	if backend == "" {
		backend = cfg.Store.Backend
	}
	logger.SetContext(tag, backend)
	defer logger.ClearContext()

	if opts.DryRun {
		p, err := release.NewPlan(cfg.Services, cfg.Registry.Naming(), tag)
		if err != nil {
			return err
		}
		return plan.Write(ios.Out, p, cmdutil.ModeText)
	}

	// Reject an empty release before connecting to anything.
	if tag == "" {
		return release.ErrEmptyReleaseTag
	}

	store, err := opts.ImageStore(ctx, backend)
	if err != nil {
		return err
	}
	if opts.CloseStore != nil {
		defer opts.CloseStore()
	}

	publisher := release.NewPublisher(store, cfg.Services, cfg.Registry.Naming(),
		release.WithStepFunc(func(step release.Step, total int) {
			fmt.Fprintf(ios.ErrOut, "%s [%d/%d] %s\n", cs.SuccessIcon(), step.Position, total, step)
		}))

	if err := publisher.Publish(ctx, tag); err != nil {
		return err
	}

	fmt.Fprintf(ios.ErrOut, "%s Published %s for %d services\n", cs.SuccessIcon(), cs.Bold(tag), len(cfg.Services))
	return nil
}
