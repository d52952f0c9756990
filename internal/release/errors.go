package release

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyReleaseTag is returned before any step runs when no release tag was given.
	ErrEmptyReleaseTag = errors.New("release tag must not be empty")

	// ErrEmptyCatalogue is returned before any step runs when there are no services to publish.
	ErrEmptyCatalogue = errors.New("service catalogue is empty")
)

// StepError reports the image store failure that aborted a publishing run.
// Steps before Step.Position completed and stay published.
type StepError struct {
	Step  Step
	Total int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d/%d failed (%s): %v", e.Step.Position, e.Total, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status reported by the failing command, or 1
// when the store failure carries none.
func (e *StepError) ExitCode() int {
	var coder interface{ ExitCode() int }
	if errors.As(e.Err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
