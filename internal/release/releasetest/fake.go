// Package releasetest provides test doubles for the release package.
package releasetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/schmitthub/relpub/internal/release"
)

// ErrInjected is returned by FakeStore at the configured failure position
// when no explicit error is set.
var ErrInjected = errors.New("injected image store failure")

// Call is one recorded image store invocation.
type Call struct {
	Op     string
	Source string
	Target string
}

func (c Call) String() string {
	if c.Op == "tag" {
		return fmt.Sprintf("tag(%s->%s)", c.Source, c.Target)
	}
	return fmt.Sprintf("push(%s)", c.Target)
}

// TagCall builds the expected record of a tag invocation.
func TagCall(source, target string) Call {
	return Call{Op: "tag", Source: source, Target: target}
}

// PushCall builds the expected record of a push invocation.
func PushCall(target string) Call {
	return Call{Op: "push", Target: target}
}

// FakeStore records every call and optionally fails the FailAt-th one (1-based).
type FakeStore struct {
	// FailAt is the 1-based call that fails. Zero never fails.
	FailAt int
	// Err is returned at FailAt. Defaults to ErrInjected.
	Err error

	mu    sync.Mutex
	calls []Call
}

// FailingAt returns a store whose k-th call fails with err (ErrInjected when nil).
func FailingAt(k int, err error) *FakeStore {
	return &FakeStore{FailAt: k, Err: err}
}

// Tag implements release.ImageStore.
func (f *FakeStore) Tag(_ context.Context, source, target release.ImageReference) error {
	return f.record(TagCall(source.String(), target.String()))
}

// Push implements release.ImageStore.
func (f *FakeStore) Push(_ context.Context, target release.ImageReference) error {
	return f.record(PushCall(target.String()))
}

func (f *FakeStore) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, c)
	if f.FailAt > 0 && len(f.calls) == f.FailAt {
		if f.Err != nil {
			return f.Err
		}
		return ErrInjected
	}
	return nil
}

// Calls returns a copy of the recorded calls in order.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count returns how many calls of the given op ("tag" or "push") were recorded.
func (f *FakeStore) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
