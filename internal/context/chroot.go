package context

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
)

// ChrootRetriever reports the chroot label the Debian way: $debian_chroot if
// set, otherwise the content of the chroot marker file.
type ChrootRetriever struct {
	env        expand.Environ
	markerFile string
}

// NewChrootRetriever creates a ChrootRetriever. markerFile may be empty to
// only consult the environment.
func NewChrootRetriever(env expand.Environ, markerFile string) *ChrootRetriever {
	return &ChrootRetriever{env: env, markerFile: markerFile}
}

// Name returns the retriever name.
func (r *ChrootRetriever) Name() string {
	return NameChroot
}

// GetContext returns the chroot label, or "" outside a chroot.
func (r *ChrootRetriever) GetContext(ctx context.Context) (string, error) {
	if label := r.env.Get("debian_chroot").String(); label != "" {
		return label, nil
	}
	if r.markerFile == "" {
		return "", nil
	}

	content, err := os.ReadFile(r.markerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read chroot marker: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}
