package context

import (
	"context"
	"path/filepath"

	"mvdan.cc/sh/v3/expand"
)

// VenvRetriever reports the name of the active Python virtual environment.
type VenvRetriever struct {
	env expand.Environ
}

// NewVenvRetriever creates a VenvRetriever reading $VIRTUAL_ENV from env.
func NewVenvRetriever(env expand.Environ) *VenvRetriever {
	return &VenvRetriever{env: env}
}

// Name returns the retriever name.
func (r *VenvRetriever) Name() string {
	return NameVenv
}

// GetContext returns the basename of $VIRTUAL_ENV, or "" when no venv is active.
func (r *VenvRetriever) GetContext(ctx context.Context) (string, error) {
	path := r.env.Get("VIRTUAL_ENV").String()
	if path == "" {
		return "", nil
	}
	return filepath.Base(path), nil
}
