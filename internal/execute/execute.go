// Package execute wraps external command invocation. It is the sole
// shell side-effect primitive of the verifier: a command is run
// synchronously, its combined output is streamed to the operator, and a
// non-zero exit status is the uniform failure signal.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ZebulonRouseFrantzich/relvet/internal/ui"
)

// CommandError reports a delegated tool exiting with a non-zero status.
// The command's output has already been streamed above, so the message
// points the operator there.
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("executing `%s`", e.Command)
	if e.Dir != "" {
		msg += fmt.Sprintf(" in %s", e.Dir)
	}
	return msg + fmt.Sprintf(" exited with non-zero status code %d. See above for output.", e.ExitCode)
}

// Runner executes an external command, optionally in a working
// directory. Implementations stream output as the command runs.
type Runner interface {
	Run(ctx context.Context, command, dir string) error
}

// ShellRunner runs commands through `sh -c`, streaming combined
// stdout/stderr to Out.
type ShellRunner struct {
	// Out receives the announcement line and the command's output.
	// Defaults to os.Stdout.
	Out io.Writer
}

func (r *ShellRunner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// Run executes command with the shell. It returns a *CommandError for a
// non-zero exit status and wraps any other start failure.
func (r *ShellRunner) Run(ctx context.Context, command, dir string) error {
	msg := fmt.Sprintf("Executing `%s`", command)
	if dir != "" {
		msg += fmt.Sprintf(" in '%s'", dir)
	}
	fmt.Fprintln(r.out(), ui.Substep(msg))

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = r.out()
	cmd.Stderr = r.out()
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Command: command, Dir: dir, ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("start command: %w", err)
}
