package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/expand"

	"github.com/atinylittleshell/gprompt/internal/bash"
	"github.com/atinylittleshell/gprompt/internal/config"
	promptctx "github.com/atinylittleshell/gprompt/internal/context"
	"github.com/atinylittleshell/gprompt/internal/core"
	"github.com/atinylittleshell/gprompt/internal/prompt"
	"github.com/atinylittleshell/gprompt/internal/shell"
	"github.com/atinylittleshell/gprompt/internal/styles"
)

var BUILD_VERSION = "dev"

const helpText = `gprompt - an informational shell prompt

USAGE:
  gprompt -init SHELL            Print the hook that installs gprompt in SHELL
  gprompt [-status N] [-shell S] Render the prompt for the last exit status N

Install by adding one of these to your shell's startup file:
  eval "$(gprompt -init bash)"   # ~/.bashrc
  eval "$(gprompt -init zsh)"    # ~/.zshrc
  gprompt -init fish | source    # ~/.config/fish/config.fish

The prompt shows the Python virtualenv, the Kubernetes context, the chroot,
user@host:path and the git status, and colours the prompt symbol red after a
failed command. It is configured in ~/.gprompt/config.yaml (or $GPROMPT_CONFIG).

The zsh hook turns on no_prompt_subst for the session, so other prompts such
as RPROMPT can no longer use $(...) substitutions.

OPTIONS:
`

type options struct {
	status     int
	shell      string
	init       string
	configPath string
	help       bool
	version    bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, output io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("gprompt", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&opts.status, "status", 0, "exit status of the previous command")
	fs.StringVar(&opts.shell, "shell", shell.None, "escape the prompt for bash, zsh, fish or none")
	fs.StringVar(&opts.init, "init", "", "print the hook snippet for bash, zsh or fish")
	fs.StringVar(&opts.configPath, "config", "", "config file (default $GPROMPT_CONFIG or ~/.gprompt/config.yaml)")
	fs.BoolVar(&opts.help, "h", false, "display help information")
	fs.BoolVar(&opts.version, "ver", false, "display build version")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, BUILD_VERSION)
		return 0
	}

	if opts.help {
		fmt.Fprint(stdout, helpText)
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}

	if opts.init != "" {
		return printHook(stdout, stderr, opts.init)
	}

	env := expand.ListEnviron(os.Environ()...)

	result := config.NewLoader(nil).Load(opts.configPath, env)
	cfg := result.Config

	logger := initializeLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	for _, e := range result.Errors {
		logger.Warn("config problem, using defaults", zap.String("path", result.Path), zap.Error(e))
	}

	shellType := opts.shell
	switch shellType {
	case shell.Bash, shell.Zsh, shell.Fish, shell.None:
	default:
		logger.Warn("unknown shell, printing the prompt unescaped", zap.String("shell", shellType))
		shellType = shell.None
	}

	fmt.Fprint(stdout, shell.Escape(renderPrompt(ctx, cfg, env, opts.status, logger), shellType))
	return 0
}

// renderPrompt samples the environment and renders one prompt. It cannot fail.
func renderPrompt(ctx context.Context, cfg *config.Config, env expand.Environ, status int, logger *zap.Logger) string {
	sources := promptctx.Sources{
		Env:    env,
		Config: cfg,
		Logger: logger,
	}

	runner, err := bash.NewRunner(bash.Options{
		Env:    env,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("external queries disabled", zap.Error(err))
	} else {
		sources.Runner = runner
	}

	pctx := promptctx.Collect(ctx, promptctx.NewDefaultProvider(sources), status)

	noColor := env.Get("NO_COLOR").String() != ""
	profile := prompt.ProfileFor(cfg.Color, noColor, detectProfile)

	return prompt.NewComposer(prompt.ThemeFromConfig(cfg), profile).Render(pctx)
}

func printHook(stdout, stderr io.Writer, shellType string) int {
	exe, err := os.Executable()
	if err != nil {
		exe = "gprompt"
	}

	snippet, err := shell.HookSnippet(strings.ToLower(shellType), exe)
	if err != nil {
		fmt.Fprintln(stderr, styles.ERROR(err.Error()))
		fmt.Fprintln(stderr, styles.HINT("usage: gprompt -init bash|zsh|fish"))
		return 2
	}

	fmt.Fprint(stdout, snippet)
	return 0
}

// detectProfile reports the colour support of the terminal the shell runs in.
// stdout is captured by the hook, so stderr stands in for the terminal.
func detectProfile() termenv.Profile {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(os.Stderr, termenv.WithTTY(true)).EnvColorProfile()
}

func initializeLogger(cfg *config.Config) *zap.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = zap.WarnLevel
	}
	logLevel := zap.NewAtomicLevelAt(level)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// A prompt without a log file is better than no prompt.
	if err := core.EnsureDataDir(); err != nil {
		return zap.NewNop()
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}
	loggerConfig.ErrorOutputPaths = []string{
		core.LogFile(),
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}
