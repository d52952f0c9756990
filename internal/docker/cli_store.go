package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"

	"github.com/google/shlex"

	"github.com/schmitthub/relpub/internal/logger"
	"github.com/schmitthub/relpub/internal/release"
)

// stderrTailSize bounds how much child stderr is kept for error messages.
const stderrTailSize = 4096

// CommandError reports a container CLI invocation that did not succeed.
type CommandError struct {
	Args []string
	// Code is the child's exit status, or -1 when it never ran.
	Code   int
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	cmdline := strings.Join(e.Args, " ")
	if e.Code < 0 {
		return fmt.Sprintf("%s: %v", cmdline, e.Err)
	}
	msg := fmt.Sprintf("%s: exit status %d", cmdline, e.Code)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the child's exit status.
func (e *CommandError) ExitCode() int {
	return e.Code
}

// CLIStore publishes images by running a container CLI such as docker or podman.
type CLIStore struct {
	argv   []string
	stdout io.Writer
	stderr io.Writer
}

// NewCLIStore parses command with shell quoting rules ("docker", "sudo docker",
// "podman --remote") and streams child output to stdout and stderr.
func NewCLIStore(command string, stdout, stderr io.Writer) (*CLIStore, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parsing container command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("container command is empty")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &CLIStore{argv: argv, stdout: stdout, stderr: stderr}, nil
}

// Command returns the parsed command prefix.
func (s *CLIStore) Command() []string {
	return slices.Clone(s.argv)
}

// Tag implements release.ImageStore.
func (s *CLIStore) Tag(ctx context.Context, source, target release.ImageReference) error {
	return s.run(ctx, "tag", source.String(), target.String())
}

// Push implements release.ImageStore.
func (s *CLIStore) Push(ctx context.Context, target release.ImageReference) error {
	return s.run(ctx, "push", target.String())
}

func (s *CLIStore) run(ctx context.Context, args ...string) error {
	full := append(slices.Clone(s.argv), args...)
	logger.Debug().Strs("argv", full).Msg("running container command")

	tail := &tailBuffer{max: stderrTailSize}
	cmd := exec.CommandContext(ctx, full[0], full[1:]...)
	cmd.Stdout = s.stdout
	cmd.Stderr = io.MultiWriter(s.stderr, tail)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Args: full, Code: exitErr.ExitCode(), Stderr: tail.String(), Err: err}
	}
	return &CommandError{Args: full, Code: -1, Err: err}
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
