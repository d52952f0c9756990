package plan

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/iostreams/iostreamstest"
	"github.com/schmitthub/relpub/internal/release"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Services = []string{"control", "router"}
	return cfg
}

func testOpts(tio *iostreamstest.TestIOStreams) *PlanOptions {
	return &PlanOptions{
		IOStreams: tio.IOStreams,
		Config:    func() (*config.Config, error) { return testConfig(), nil },
		GitTag:    func() (string, error) { return "v0.0.7", nil },
		Format:    cmdutil.ModeText,
	}
}

func TestNewCmdPlan(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantTag     string
		wantFromGit bool
		wantFormat  string
		wantErr     bool
	}{
		{name: "positional", input: "v1.0.0", wantTag: "v1.0.0", wantFormat: "text"},
		{name: "from git", input: "--from-git", wantFromGit: true, wantFormat: "text"},
		{name: "json", input: "v1 --format json", wantTag: "v1", wantFormat: "json"},
		{name: "bad format", input: "v1 --format table", wantErr: true},
		{name: "too many args", input: "v1 v2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tio := iostreamstest.New()
			f := &cmdutil.Factory{IOStreams: tio.IOStreams}

			var gotOpts *PlanOptions
			cmd := NewCmdPlan(f, func(_ context.Context, opts *PlanOptions) error {
				gotOpts = opts
				return nil
			})

			argv, err := shlex.Split(tt.input)
			require.NoError(t, err)
			cmd.SetArgs(argv)
			cmd.SetIn(tio.InBuf)
			cmd.SetOut(tio.OutBuf)
			cmd.SetErr(tio.ErrBuf)

			_, err = cmd.ExecuteC()
			if tt.wantErr {
				var flagErr *cmdutil.FlagError
				require.ErrorAs(t, err, &flagErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, gotOpts)
			assert.Equal(t, tt.wantTag, gotOpts.Tag.Arg)
			assert.Equal(t, tt.wantFromGit, gotOpts.Tag.FromGit)
			assert.Equal(t, tt.wantFormat, gotOpts.Format)
		})
	}
}

func TestPlanRun_Text(t *testing.T) {
	tio := iostreamstest.New()
	opts := testOpts(tio)
	opts.Tag.SetArgs([]string{"v1"})

	require.NoError(t, planRun(context.Background(), opts))
	assert.Equal(t, `Release v1: 8 steps
  1. tag scion/control:latest -> docker.io/scionproto/control:v1
  2. push docker.io/scionproto/control:v1
  3. tag scion/control_debug:latest -> docker.io/scionproto/control_debug:v1
  4. push docker.io/scionproto/control_debug:v1
  5. tag scion/router:latest -> docker.io/scionproto/router:v1
  6. push docker.io/scionproto/router:v1
  7. tag scion/router_debug:latest -> docker.io/scionproto/router_debug:v1
  8. push docker.io/scionproto/router_debug:v1
`, tio.OutBuf.String())
}

func TestPlanRun_JSON(t *testing.T) {
	tio := iostreamstest.New()
	opts := testOpts(tio)
	opts.Tag.FromGit = true
	opts.Format = cmdutil.ModeJSON

	require.NoError(t, planRun(context.Background(), opts))

	var view View
	require.NoError(t, json.Unmarshal([]byte(tio.OutBuf.String()), &view))
	assert.Equal(t, "v0.0.7", view.Release)
	require.Len(t, view.Steps, 8)
	assert.Equal(t, StepView{
		Position: 1, Kind: "tag", Service: "control", Variant: "standard",
		Source: "scion/control:latest", Target: "docker.io/scionproto/control:v0.0.7",
	}, view.Steps[0])
	assert.Empty(t, view.Steps[1].Source)
	assert.Equal(t, "debug", view.Steps[3].Variant)
}

func TestPlanRun_YAML(t *testing.T) {
	tio := iostreamstest.New()
	opts := testOpts(tio)
	opts.Tag.SetArgs([]string{"v2"})
	opts.Format = cmdutil.ModeYAML

	require.NoError(t, planRun(context.Background(), opts))

	var view View
	require.NoError(t, yaml.Unmarshal([]byte(tio.OutBuf.String()), &view))
	assert.Equal(t, "v2", view.Release)
	assert.Equal(t, "docker.io/scionproto/router_debug:v2", view.Steps[7].Target)
}

func TestPlanRun_EmptyTag(t *testing.T) {
	tio := iostreamstest.New()
	opts := testOpts(tio)
	opts.Tag.SetArgs([]string{""})

	err := planRun(context.Background(), opts)
	require.ErrorIs(t, err, release.ErrEmptyReleaseTag)
	assert.Empty(t, tio.OutBuf.String())
}

func TestPlanRun_MissingTag(t *testing.T) {
	tio := iostreamstest.New()
	err := planRun(context.Background(), testOpts(tio))

	var flagErr *cmdutil.FlagError
	require.ErrorAs(t, err, &flagErr)
}
