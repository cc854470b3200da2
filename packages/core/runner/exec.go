package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long a killed script may keep its output pipes open
// through child processes
const waitDelay = time.Second

type execOutput struct {
	stdout   string
	stderr   string
	exitCode int
	timedOut bool
	duration time.Duration
}

// execute runs the interpreter with scriptPath as its sole argument. A
// non-zero exit status is reported in exitCode, not as an error.
func (r *Runner) execute(ctx context.Context, scriptPath string, stdin io.Reader) (*execOutput, error) {
	runCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.config.Interpreter, scriptPath)
	cmd.Stdin = stdin
	cmd.Env = r.config.Env
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := &execOutput{
		duration: time.Since(start),
		stdout:   strings.ToValidUTF8(stdout.String(), "\uFFFD"),
		stderr:   strings.ToValidUTF8(stderr.String(), "\uFFFD"),
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("running %s: %w", scriptPath, ctx.Err())
	}

	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return out, nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		out.timedOut = true
		out.exitCode = -1
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.exitCode = exitErr.ExitCode()
		return out, nil
	}

	return nil, &ExecutionError{Interpreter: r.config.Interpreter, Script: scriptPath, Err: err}
}
