package swiftcc

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Executor runs a shell command line. It returns an error only when the
// command cannot be started or waited for, or when ctx is done; a command that runs and exits
// with a non-zero status returns the status and a nil error.
type Executor interface {
	Exec(ctx context.Context, command string) (int, error)
}

// waitDelay bounds how long an interrupted command may hold its output
// pipes open after the shell is killed.
const waitDelay = time.Second

// ShellExecutor runs commands with /bin/sh on the host.
type ShellExecutor struct {
	Dir    string    // Working directory; empty for the current one.
	Stdout io.Writer // Defaults to os.Stdout.
	Stderr io.Writer // Defaults to os.Stderr.
}

func (e *ShellExecutor) command(ctx context.Context, line string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", line)
	cmd.Dir = e.Dir
	cmd.WaitDelay = waitDelay
	if e.Stdout == nil {
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stdout = e.Stdout
	}
	if e.Stderr == nil {
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stderr = e.Stderr
	}
	return cmd
}

// Exec runs the command and waits for it to exit. When ctx is done before
// the command exits, the command is killed and the context error is
// returned.
func (e *ShellExecutor) Exec(ctx context.Context, line string) (int, error) {
	if err := e.command(ctx, line).Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
