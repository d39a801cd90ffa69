package context

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"

	"github.com/atinylittleshell/gprompt/internal/core"
)

// WorkingDirectoryRetriever reports the current directory with the home
// directory abbreviated to "~".
type WorkingDirectoryRetriever struct {
	env   expand.Environ
	getwd func() (string, error)
	home  func() string
}

// NewWorkingDirectoryRetriever creates a WorkingDirectoryRetriever.
func NewWorkingDirectoryRetriever(env expand.Environ) *WorkingDirectoryRetriever {
	return &WorkingDirectoryRetriever{
		env:   env,
		getwd: os.Getwd,
		home:  core.HomeDir,
	}
}

// Name returns the retriever name.
func (r *WorkingDirectoryRetriever) Name() string {
	return NameDir
}

// GetContext returns the working directory. $PWD is preferred so the logical
// path through symlinks is shown, as the shell itself does.
func (r *WorkingDirectoryRetriever) GetContext(ctx context.Context) (string, error) {
	dir := r.env.Get("PWD").String()
	if !filepath.IsAbs(dir) {
		var err error
		if dir, err = r.getwd(); err != nil {
			return "", err
		}
	}
	home := r.env.Get("HOME").String()
	if home == "" {
		home = r.home()
	}
	return abbreviateHome(dir, home), nil
}

func abbreviateHome(dir, home string) string {
	home = strings.TrimSuffix(home, string(filepath.Separator))
	if home == "" {
		return dir
	}
	if dir == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(dir, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return dir
}
