package release_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/relpub/internal/logger/loggertest"
	"github.com/schmitthub/relpub/internal/release"
	"github.com/schmitthub/relpub/internal/release/releasetest"
)

var bareNaming = release.Naming{}

type exitCodeErr struct{ code int }

func (e exitCodeErr) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitCodeErr) ExitCode() int { return e.code }

func TestPublish_TwoServices(t *testing.T) {
	store := &releasetest.FakeStore{}
	p := release.NewPublisher(store, []string{"a", "b"}, bareNaming)

	require.NoError(t, p.Publish(context.Background(), "v1.2.3"))

	want := []releasetest.Call{
		releasetest.TagCall("a:latest", "a:v1.2.3"),
		releasetest.PushCall("a:v1.2.3"),
		releasetest.TagCall("a_debug:latest", "a_debug:v1.2.3"),
		releasetest.PushCall("a_debug:v1.2.3"),
		releasetest.TagCall("b:latest", "b:v1.2.3"),
		releasetest.PushCall("b:v1.2.3"),
		releasetest.TagCall("b_debug:latest", "b_debug:v1.2.3"),
		releasetest.PushCall("b_debug:v1.2.3"),
	}
	assert.Equal(t, want, store.Calls())
}

func TestPublish_Namespaces(t *testing.T) {
	store := &releasetest.FakeStore{}
	naming := release.Naming{LocalNamespace: "scion", RemoteNamespace: "docker.io/scionproto"}
	p := release.NewPublisher(store, []string{"control"}, naming)

	require.NoError(t, p.Publish(context.Background(), "v0.9.0"))

	assert.Equal(t, []releasetest.Call{
		releasetest.TagCall("scion/control:latest", "docker.io/scionproto/control:v0.9.0"),
		releasetest.PushCall("docker.io/scionproto/control:v0.9.0"),
		releasetest.TagCall("scion/control_debug:latest", "docker.io/scionproto/control_debug:v0.9.0"),
		releasetest.PushCall("docker.io/scionproto/control_debug:v0.9.0"),
	}, store.Calls())
}

func TestPublish_CallCounts(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d services", n), func(t *testing.T) {
			services := make([]string, n)
			for i := range services {
				services[i] = fmt.Sprintf("svc%d", i)
			}
			store := &releasetest.FakeStore{}
			p := release.NewPublisher(store, services, bareNaming)

			require.NoError(t, p.Publish(context.Background(), "r1"))
			assert.Equal(t, 2*n, store.Count("tag"))
			assert.Equal(t, 2*n, store.Count("push"))

			// Catalogue order, standard before debug.
			calls := store.Calls()
			for i, svc := range services {
				assert.Equal(t, svc+":latest", calls[4*i].Source)
				assert.Equal(t, svc+"_debug:latest", calls[4*i+2].Source)
			}
		})
	}
}

func TestPublish_ReleaseTagVerbatim(t *testing.T) {
	tags := []string{"v1.2.3", " padded ", "UPPER", "2026.10.15-rc.1", "a/b"}
	for _, tag := range tags {
		t.Run(tag, func(t *testing.T) {
			store := &releasetest.FakeStore{}
			p := release.NewPublisher(store, []string{"x"}, bareNaming)
			require.NoError(t, p.Publish(context.Background(), tag))

			for _, c := range store.Calls() {
				assert.Equal(t, "x", trimTag(c.Target, tag), "target %q", c.Target)
				if c.Op == "tag" {
					assert.Contains(t, []string{"x:latest", "x_debug:latest"}, c.Source)
				}
			}
		})
	}
}

// trimTag strips ":"+tag (and the debug suffix) from ref, returning the base image name.
func trimTag(ref, tag string) string {
	suffix := ":" + tag
	if len(ref) < len(suffix) || ref[len(ref)-len(suffix):] != suffix {
		return ref
	}
	name := ref[:len(ref)-len(suffix)]
	if len(name) > len(release.DebugSuffix) && name[len(name)-len(release.DebugSuffix):] == release.DebugSuffix {
		name = name[:len(name)-len(release.DebugSuffix)]
	}
	return name
}

func TestPublish_FailureAtEveryPosition(t *testing.T) {
	services := []string{"a", "b", "c"}
	total := 4 * len(services)

	for k := 1; k <= total; k++ {
		t.Run(fmt.Sprintf("fail at %d", k), func(t *testing.T) {
			store := releasetest.FailingAt(k, nil)
			p := release.NewPublisher(store, services, bareNaming)

			err := p.Publish(context.Background(), "v1")
			require.Error(t, err)
			require.ErrorIs(t, err, releasetest.ErrInjected)

			var stepErr *release.StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, k, stepErr.Step.Position)
			assert.Equal(t, total, stepErr.Total)

			// Calls 1..k issued, nothing after.
			assert.Len(t, store.Calls(), k)
		})
	}
}

func TestPublish_PushFailureStopsBeforeDebug(t *testing.T) {
	// b's standard push is call 6.
	store := releasetest.FailingAt(6, errors.New("denied: requested access to the resource is denied"))
	p := release.NewPublisher(store, []string{"a", "b"}, bareNaming)

	err := p.Publish(context.Background(), "v1.2.3")
	require.Error(t, err)

	assert.Equal(t, []releasetest.Call{
		releasetest.TagCall("a:latest", "a:v1.2.3"),
		releasetest.PushCall("a:v1.2.3"),
		releasetest.TagCall("a_debug:latest", "a_debug:v1.2.3"),
		releasetest.PushCall("a_debug:v1.2.3"),
		releasetest.TagCall("b:latest", "b:v1.2.3"),
		releasetest.PushCall("b:v1.2.3"),
	}, store.Calls())

	var stepErr *release.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, release.StepPush, stepErr.Step.Kind)
	assert.Equal(t, "b", stepErr.Step.Service)
	assert.Equal(t, release.Standard, stepErr.Step.Variant)
	assert.Contains(t, err.Error(), "step 6/8")
}

func TestPublish_EmptyReleaseTag(t *testing.T) {
	store := &releasetest.FakeStore{}
	p := release.NewPublisher(store, []string{"a"}, bareNaming)

	err := p.Publish(context.Background(), "")
	require.ErrorIs(t, err, release.ErrEmptyReleaseTag)
	assert.Empty(t, store.Calls())
}

func TestPublish_EmptyCatalogue(t *testing.T) {
	store := &releasetest.FakeStore{}
	p := release.NewPublisher(store, nil, bareNaming)

	err := p.Publish(context.Background(), "v1")
	require.ErrorIs(t, err, release.ErrEmptyCatalogue)
	assert.Empty(t, store.Calls())
}

func TestPublish_CancelledContext(t *testing.T) {
	store := &releasetest.FakeStore{}
	p := release.NewPublisher(store, []string{"a"}, bareNaming)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, "v1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Calls())
}

func TestPublish_CancelMidRun(t *testing.T) {
	store := &releasetest.FakeStore{}
	ctx, cancel := context.WithCancel(context.Background())

	p := release.NewPublisher(store, []string{"a", "b"}, bareNaming,
		release.WithStepFunc(func(step release.Step, _ int) {
			if step.Position == 3 {
				cancel()
			}
		}))

	err := p.Publish(ctx, "v1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.Calls(), 3)
}

func TestPublish_StepFunc(t *testing.T) {
	store := &releasetest.FakeStore{}
	var seen []int
	p := release.NewPublisher(store, []string{"a", "b"}, bareNaming,
		release.WithStepFunc(func(step release.Step, total int) {
			assert.Equal(t, 8, total)
			seen = append(seen, step.Position)
		}))

	require.NoError(t, p.Publish(context.Background(), "v1"))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, seen)
}

func TestPublish_Logs(t *testing.T) {
	tl := loggertest.Capture(t)
	store := releasetest.FailingAt(2, nil)
	p := release.NewPublisher(store, []string{"a"}, bareNaming)

	require.Error(t, p.Publish(context.Background(), "v1"))
	out := tl.Output()
	assert.Contains(t, out, "running step")
	assert.Contains(t, out, "step failed, aborting release")
	assert.NotContains(t, out, "release published")
}

func TestPublisher_CatalogueIsCopied(t *testing.T) {
	services := []string{"a", "b"}
	store := &releasetest.FakeStore{}
	p := release.NewPublisher(store, services, bareNaming)
	services[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, p.Services())
}

func TestStepError_ExitCode(t *testing.T) {
	plain := &release.StepError{Err: errors.New("boom")}
	assert.Equal(t, 1, plain.ExitCode())

	coded := &release.StepError{Err: fmt.Errorf("wrapped: %w", exitCodeErr{code: 125})}
	assert.Equal(t, 125, coded.ExitCode())
}
