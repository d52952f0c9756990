// Package dockertest provides test doubles for internal/docker.
//
// FakeAPIClient satisfies docker.APIClient with function fields, so an
// EngineStore under test runs its real error mapping and stream handling
// against canned daemon responses.
//
// Usage:
//
//	fake := dockertest.NewFakeAPIClient()
//	fake.ImagePushFn = dockertest.PushStream(dockertest.PushSucceeded("v1", "sha256:...")...)
//	store := docker.NewEngineStoreWithClient(fake, nil)
//
//	fake.AssertCalled(t, "ImagePush")
package dockertest

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
)

// FakeAPIClient records every call and delegates to the matching Fn field.
// A nil Fn succeeds with a zero value.
type FakeAPIClient struct {
	PingFn      func(ctx context.Context) (types.Ping, error)
	ImageTagFn  func(ctx context.Context, source, target string) error
	ImagePushFn func(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error)

	mu     sync.Mutex
	calls  []string
	closed bool
}

// NewFakeAPIClient returns a fake whose operations all succeed.
func NewFakeAPIClient() *FakeAPIClient {
	return &FakeAPIClient{}
}

func (f *FakeAPIClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *FakeAPIClient) Ping(ctx context.Context) (types.Ping, error) {
	f.record("Ping")
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return types.Ping{APIVersion: "1.47"}, nil
}

func (f *FakeAPIClient) ImageTag(ctx context.Context, source, target string) error {
	f.record("ImageTag")
	if f.ImageTagFn != nil {
		return f.ImageTagFn(ctx, source, target)
	}
	return nil
}

func (f *FakeAPIClient) ImagePush(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error) {
	f.record("ImagePush")
	if f.ImagePushFn != nil {
		return f.ImagePushFn(ctx, ref, options)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *FakeAPIClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns the method names invoked so far, in order.
func (f *FakeAPIClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Closed reports whether Close was called.
func (f *FakeAPIClient) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// AssertCalled fails the test if method was never invoked.
func (f *FakeAPIClient) AssertCalled(t *testing.T, method string) {
	t.Helper()
	for _, c := range f.Calls() {
		if c == method {
			return
		}
	}
	t.Errorf("expected %s to be called, calls were %v", method, f.Calls())
}

// AssertNotCalled fails the test if method was invoked.
func (f *FakeAPIClient) AssertNotCalled(t *testing.T, method string) {
	t.Helper()
	for _, c := range f.Calls() {
		if c == method {
			t.Errorf("expected %s not to be called", method)
			return
		}
	}
}

// PushStream returns an ImagePushFn that replies with the given messages as a
// newline-delimited JSON progress stream.
func PushStream(msgs ...jsonmessage.JSONMessage) func(context.Context, string, image.PushOptions) (io.ReadCloser, error) {
	return func(context.Context, string, image.PushOptions) (io.ReadCloser, error) {
		var sb strings.Builder
		enc := json.NewEncoder(&sb)
		for _, m := range msgs {
			if err := enc.Encode(m); err != nil {
				return nil, err
			}
		}
		return io.NopCloser(strings.NewReader(sb.String())), nil
	}
}

// PushSucceeded is the stream a daemon emits for a completed push.
func PushSucceeded(tag, digest string) []jsonmessage.JSONMessage {
	aux := json.RawMessage(`{"Tag":"` + tag + `","Digest":"` + digest + `","Size":1234}`)
	return []jsonmessage.JSONMessage{
		{Status: "The push refers to repository [docker.io/scionproto/control]"},
		{ID: "5f70bf18a086", Status: "Pushed"},
		{Status: tag + ": digest: " + digest + " size: 1234"},
		{Aux: &aux},
	}
}

// PushDenied is the stream a daemon emits when the registry rejects a push.
func PushDenied() []jsonmessage.JSONMessage {
	const msg = "denied: requested access to the resource is denied"
	return []jsonmessage.JSONMessage{
		{Status: "The push refers to repository [docker.io/scionproto/control]"},
		{Error: &jsonmessage.JSONError{Message: msg}, ErrorMessage: msg},
	}
}
