package context

import (
	"context"
	"strings"
)

type fakeResult struct {
	out  string
	code int
	err  error
}

// fakeRunner answers commands from a table keyed by the joined command line.
type fakeRunner struct {
	results map[string]fakeResult
	calls   []string
}

func (f *fakeRunner) RunArgs(ctx context.Context, name string, args ...string) (string, int, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if res, ok := f.results[key]; ok {
		return res.out, res.code, res.err
	}
	return "", 127, nil
}

const (
	kubeCmd = "kubectl config current-context"
	gitCmd  = "git status --porcelain=v2 --branch"
)
