// Package bash runs short read-only queries (git, kubectl) for the prompt
// through an embedded POSIX shell interpreter. Every query runs in its own
// subshell with captured output, so nothing leaks into the user's terminal.
package bash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultKillTimeout is how long a cancelled query gets between SIGTERM and SIGKILL.
const DefaultKillTimeout = 100 * time.Millisecond

// threadSafeBuffer provides a thread-safe wrapper around bytes.Buffer
type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

// Write implements io.Writer interface
func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

// String returns the contents of the buffer as a string
func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// ExecMiddleware wraps an ExecHandlerFunc, e.g. to log or intercept commands.
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// Options configures a Runner.
type Options struct {
	// Env is the environment snapshot the queries see. Defaults to an empty environment.
	Env expand.Environ
	// Dir is the working directory for queries. Defaults to the process directory.
	Dir string
	// KillTimeout is the grace period after cancellation before the process group is killed.
	KillTimeout time.Duration
	Logger      *zap.Logger
	// ExecHandlers are extra middlewares placed in front of the process handler.
	ExecHandlers []ExecMiddleware
}

// Runner executes commands in subshells of a single interpreter.
type Runner struct {
	runner *interp.Runner
	logger *zap.Logger
}

// NewRunner creates a Runner from opts.
func NewRunner(opts Options) (*Runner, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	killTimeout := opts.KillTimeout
	if killTimeout == 0 {
		killTimeout = DefaultKillTimeout
	}

	handlers := append([]ExecMiddleware{logCommands(logger)}, opts.ExecHandlers...)
	handlers = append(handlers, processGroup(killTimeout))

	runnerOpts := []interp.RunnerOption{
		interp.StdIO(nil, io.Discard, io.Discard),
		interp.ExecHandlers(handlers...),
	}
	if opts.Env != nil {
		runnerOpts = append(runnerOpts, interp.Env(opts.Env))
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell runner: %w", err)
	}

	return &Runner{runner: runner, logger: logger}, nil
}

// Run runs a command in a subshell and captures stdout.
// Returns stdout, exit code, and any execution error.
// A non-zero exit code is NOT treated as an error - check the exit code separately.
func (r *Runner) Run(ctx context.Context, command string) (string, int, error) {
	subShell := r.runner.Subshell()

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	interp.StdIO(nil, outBuf, errBuf)(subShell) //nolint:errcheck

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", 1, fmt.Errorf("failed to parse command: %w", err)
	}

	if len(prog.Stmts) == 0 {
		// Empty command
		return "", 0, nil
	}

	err = subShell.Run(ctx, prog)
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			if stderr := errBuf.String(); stderr != "" {
				r.logger.Debug("command exited non-zero",
					zap.String("command", command),
					zap.Int("exit_code", int(exitStatus)),
					zap.String("stderr", strings.TrimSpace(stderr)))
			}
			return outBuf.String(), int(exitStatus), nil
		}
		return outBuf.String(), 1, err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return outBuf.String(), 1, ctxErr
	}

	return outBuf.String(), 0, nil
}

// RunArgs quotes name and args as separate words and runs them like Run.
func (r *Runner) RunArgs(ctx context.Context, name string, args ...string) (string, int, error) {
	words := make([]string, 0, len(args)+1)
	for _, arg := range append([]string{name}, args...) {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", 1, fmt.Errorf("failed to quote %q: %w", arg, err)
		}
		words = append(words, quoted)
	}
	return r.Run(ctx, strings.Join(words, " "))
}

func logCommands(logger *zap.Logger) ExecMiddleware {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			start := time.Now()
			err := next(ctx, args)
			logger.Debug("exec",
				zap.Strings("args", args),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return err
		}
	}
}

// processGroup terminates the chain with NewProcessGroupExecHandler.
func processGroup(killTimeout time.Duration) ExecMiddleware {
	handler := NewProcessGroupExecHandler(killTimeout)
	return func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return handler
	}
}
