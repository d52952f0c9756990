package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/google/shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/iostreams/iostreamstest"
	"github.com/schmitthub/relpub/internal/release"
	"github.com/schmitthub/relpub/internal/release/releasetest"
)

func TestNewCmdPublish(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantTag     string
		wantTagSet  bool
		wantFromGit bool
		wantDryRun  bool
		wantBackend string
		wantErr     string
	}{
		{name: "no args", input: ""},
		{name: "positional", input: "v1.2.3", wantTag: "v1.2.3", wantTagSet: true},
		{name: "empty positional", input: `""`, wantTag: "", wantTagSet: true},
		{name: "from git", input: "--from-git", wantFromGit: true},
		{name: "dry run", input: "v1 --dry-run", wantTag: "v1", wantTagSet: true, wantDryRun: true},
		{name: "backend", input: "v1 --backend cli", wantTag: "v1", wantTagSet: true, wantBackend: "cli"},
		{name: "bad backend", input: "v1 --backend containerd", wantErr: "invalid --backend"},
		{name: "too many args", input: "v1 v2", wantErr: "requires at most 1 argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tio := iostreamstest.New()
			f := &cmdutil.Factory{IOStreams: tio.IOStreams}

			var gotOpts *PublishOptions
			cmd := NewCmdPublish(f, func(_ context.Context, opts *PublishOptions) error {
				gotOpts = opts
				return nil
			})

			argv, err := shlex.Split(tt.input)
			require.NoError(t, err)
			if argv == nil {
				argv = []string{}
			}
			cmd.SetArgs(argv)
			cmd.SetIn(tio.InBuf)
			cmd.SetOut(tio.OutBuf)
			cmd.SetErr(tio.ErrBuf)

			_, err = cmd.ExecuteC()
			if tt.wantErr != "" {
				var flagErr *cmdutil.FlagError
				require.ErrorAs(t, err, &flagErr)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, gotOpts)
			assert.Equal(t, tt.wantTag, gotOpts.Tag.Arg)
			assert.Equal(t, tt.wantTagSet, gotOpts.Tag.ArgSet)
			assert.Equal(t, tt.wantFromGit, gotOpts.Tag.FromGit)
			assert.Equal(t, tt.wantDryRun, gotOpts.DryRun)
			assert.Equal(t, tt.wantBackend, gotOpts.Backend)
		})
	}
}

type harness struct {
	tio         *iostreamstest.TestIOStreams
	opts        *PublishOptions
	store       *releasetest.FakeStore
	gotBackends []string
	closed      int
}

func newHarness(t *testing.T, services ...string) *harness {
	t.Helper()
	h := &harness{tio: iostreamstest.New(), store: &releasetest.FakeStore{}}
	cfg := config.DefaultConfig()
	cfg.Registry.LocalNamespace = ""
	cfg.Registry.RemoteNamespace = "remote"
	cfg.Services = services

	h.opts = &PublishOptions{
		IOStreams: h.tio.IOStreams,
		Config:    func() (*config.Config, error) { return cfg, nil },
		ImageStore: func(_ context.Context, backend string) (release.ImageStore, error) {
			h.gotBackends = append(h.gotBackends, backend)
			return h.store, nil
		},
		CloseStore: func() { h.closed++ },
		GitTag:     func() (string, error) { return "v3.0.0", nil },
	}
	return h
}

func TestPublishRun(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.opts.Tag.SetArgs([]string{"v1.2.3"})

	require.NoError(t, publishRun(context.Background(), h.opts))

	assert.Equal(t, []releasetest.Call{
		releasetest.TagCall("a:latest", "remote/a:v1.2.3"),
		releasetest.PushCall("remote/a:v1.2.3"),
		releasetest.TagCall("a_debug:latest", "remote/a_debug:v1.2.3"),
		releasetest.PushCall("remote/a_debug:v1.2.3"),
		releasetest.TagCall("b:latest", "remote/b:v1.2.3"),
		releasetest.PushCall("remote/b:v1.2.3"),
		releasetest.TagCall("b_debug:latest", "remote/b_debug:v1.2.3"),
		releasetest.PushCall("remote/b_debug:v1.2.3"),
	}, h.store.Calls())

	assert.Equal(t, []string{config.BackendEngine}, h.gotBackends)
	assert.Equal(t, 1, h.closed)

	errOut := h.tio.ErrBuf.String()
	assert.Contains(t, errOut, "[1/8] tag a:latest -> remote/a:v1.2.3")
	assert.Contains(t, errOut, "[8/8] push remote/b_debug:v1.2.3")
	assert.Contains(t, errOut, "Published v1.2.3 for 2 services")
}

func TestPublishRun_BackendOverride(t *testing.T) {
	h := newHarness(t, "a")
	h.opts.Tag.SetArgs([]string{"v1"})
	h.opts.Backend = config.BackendCLI

	require.NoError(t, publishRun(context.Background(), h.opts))
	assert.Equal(t, []string{config.BackendCLI}, h.gotBackends)
}

func TestPublishRun_FromGit(t *testing.T) {
	h := newHarness(t, "a")
	h.opts.Tag.FromGit = true

	require.NoError(t, publishRun(context.Background(), h.opts))
	assert.Equal(t, "remote/a:v3.0.0", h.store.Calls()[1].Target)
}

func TestPublishRun_StopsAtFirstFailure(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.store.FailAt = 6
	h.store.Err = errors.New("denied")
	h.opts.Tag.SetArgs([]string{"v1"})

	err := publishRun(context.Background(), h.opts)
	var stepErr *release.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 6, stepErr.Step.Position)
	assert.Len(t, h.store.Calls(), 6)
	assert.Equal(t, 1, h.closed)
	assert.NotContains(t, h.tio.ErrBuf.String(), "Published")
	assert.Contains(t, h.tio.ErrBuf.String(), "[5/8]")
	assert.NotContains(t, h.tio.ErrBuf.String(), "[6/8]")
}

func TestPublishRun_EmptyTagNeverConnects(t *testing.T) {
	h := newHarness(t, "a")
	h.opts.Tag.SetArgs([]string{""})

	err := publishRun(context.Background(), h.opts)
	require.ErrorIs(t, err, release.ErrEmptyReleaseTag)
	assert.Empty(t, h.gotBackends)
	assert.Empty(t, h.store.Calls())
}

func TestPublishRun_MissingTag(t *testing.T) {
	h := newHarness(t, "a")

	err := publishRun(context.Background(), h.opts)
	var flagErr *cmdutil.FlagError
	require.ErrorAs(t, err, &flagErr)
	assert.Empty(t, h.gotBackends)
}

func TestPublishRun_DryRun(t *testing.T) {
	h := newHarness(t, "a")
	h.opts.Tag.SetArgs([]string{"v1"})
	h.opts.DryRun = true

	require.NoError(t, publishRun(context.Background(), h.opts))
	assert.Empty(t, h.gotBackends)
	assert.Empty(t, h.store.Calls())
	assert.Equal(t, `Release v1: 4 steps
  1. tag a:latest -> remote/a:v1
  2. push remote/a:v1
  3. tag a_debug:latest -> remote/a_debug:v1
  4. push remote/a_debug:v1
`, h.tio.OutBuf.String())
}

func TestPublishRun_StoreError(t *testing.T) {
	h := newHarness(t, "a")
	h.opts.Tag.SetArgs([]string{"v1"})
	boom := errors.New("cannot connect")
	h.opts.ImageStore = func(context.Context, string) (release.ImageStore, error) { return nil, boom }

	require.ErrorIs(t, publishRun(context.Background(), h.opts), boom)
	assert.Equal(t, 0, h.closed)
}
