// Package loggertest provides test doubles for the logger package.
package loggertest

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/schmitthub/relpub/internal/logger"
)

// TestLogger captures everything written through the global logger facade.
type TestLogger struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Capture installs a capturing debug-level logger as logger.Log and restores
// the previous logger when the test finishes.
func Capture(t *testing.T) *TestLogger {
	t.Helper()

	tl := &TestLogger{}
	prev := logger.Log
	logger.Log = zerolog.New(tl).Level(zerolog.DebugLevel)
	t.Cleanup(func() {
		logger.Log = prev
		logger.ClearContext()
	})
	return tl
}

// Write implements io.Writer.
func (tl *TestLogger) Write(p []byte) (int, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buf.Write(p)
}

// Output returns captured log output as a string.
func (tl *TestLogger) Output() string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buf.String()
}

// Reset clears captured output.
func (tl *TestLogger) Reset() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.buf.Reset()
}
