// Package signals turns termination signals into context cancellation. This is
// a leaf package: stdlib only, no internal imports, no logging.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InterruptError is the cancellation cause recorded when a signal arrives.
type InterruptError struct {
	Signal os.Signal
}

func (e *InterruptError) Error() string {
	return "received " + e.Signal.String()
}

// ExitCode follows the shell convention of 128 plus the signal number.
func (e *InterruptError) ExitCode() int {
	if sig, ok := e.Signal.(syscall.Signal); ok {
		return 128 + int(sig)
	}
	return 1
}

// SetupSignalContext creates a context that's canceled on SIGINT/SIGTERM, with
// an *InterruptError as its context.Cause. Only the first signal is caught; a
// second one gets the default behaviour.
func SetupSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			cancel(&InterruptError{Signal: sig})
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, func() { cancel(context.Canceled) }
}
