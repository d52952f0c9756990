package plan

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/iostreams"
	"github.com/schmitthub/relpub/internal/release"
)

// PlanOptions holds options for the plan command.
type PlanOptions struct {
	IOStreams *iostreams.IOStreams
	Config    func() (*config.Config, error)
	GitTag    func() (string, error)

	Tag    cmdutil.ReleaseTagFlags
	Format string
}

// NewCmdPlan creates the plan command.
func NewCmdPlan(f *cmdutil.Factory, runF func(context.Context, *PlanOptions) error) *cobra.Command {
	opts := &PlanOptions{
		IOStreams: f.IOStreams,
		Config:    f.Config,
		GitTag:    f.GitTag,
	}

	cmd := &cobra.Command{
		Use:   "plan [RELEASE_TAG]",
		Short: "Show the tag and push steps a release would run",
		Long: `Prints, in order, every tag and push a publish of RELEASE_TAG would issue.
Nothing is contacted; the plan is derived from configuration alone.`,
		Example: `  # Steps for v0.12.0
  relpub plan v0.12.0

  # Machine-readable plan for the tag at HEAD
  relpub plan --from-git --format json`,
		Args: cmdutil.RequiresMaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Tag.SetArgs(args)
			if _, err := cmdutil.ParseFormat(opts.Format); err != nil {
				return err
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return planRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Tag.FromGit, "from-git", false, "Use the tag pointing at HEAD as RELEASE_TAG")
	cmd.Flags().StringVar(&opts.Format, "format", cmdutil.ModeText, `Output format: "text", "json" or "yaml"`)

	return cmd
}

func planRun(_ context.Context, opts *PlanOptions) error {
	tag, err := opts.Tag.Resolve(opts.GitTag)
	if err != nil {
		return err
	}
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	p, err := release.NewPlan(cfg.Services, cfg.Registry.Naming(), tag)
	if err != nil {
		return err
	}

	format, err := cmdutil.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	return Write(opts.IOStreams.Out, p, format)
}

// View is the serialised form of a plan.
type View struct {
	Release string     `json:"release" yaml:"release"`
	Steps   []StepView `json:"steps" yaml:"steps"`
}

// StepView is the serialised form of one step.
type StepView struct {
	Position int    `json:"position" yaml:"position"`
	Kind     string `json:"kind" yaml:"kind"`
	Service  string `json:"service" yaml:"service"`
	Variant  string `json:"variant" yaml:"variant"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Target   string `json:"target" yaml:"target"`
}

// NewView converts a plan for serialisation.
func NewView(p release.Plan) View {
	v := View{Release: p.Release, Steps: make([]StepView, 0, p.Len())}
	for _, s := range p.Steps {
		sv := StepView{
			Position: s.Position,
			Kind:     string(s.Kind),
			Service:  s.Service,
			Variant:  s.Variant.String(),
			Target:   s.Target.String(),
		}
		if s.Kind == release.StepTag {
			sv.Source = s.Source.String()
		}
		v.Steps = append(v.Steps, sv)
	}
	return v
}

// Write renders p to w in the given format (cmdutil.ModeText, ModeJSON or ModeYAML).
func Write(w io.Writer, p release.Plan, format string) error {
	switch format {
	case cmdutil.ModeJSON:
		return cmdutil.WriteJSON(w, NewView(p))
	case cmdutil.ModeYAML:
		return cmdutil.WriteYAML(w, NewView(p))
	}

	fmt.Fprintf(w, "Release %s: %d steps\n", p.Release, p.Len())
	for _, s := range p.Steps {
		fmt.Fprintf(w, "%3d. %s\n", s.Position, s)
	}
	return nil
}
