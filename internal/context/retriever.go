// Package context samples the transient facts a prompt is rendered from:
// the active virtual environment, the current Kubernetes context, the
// version-control state, the chroot label and the user/host/directory
// identity. Each fact comes from a Retriever, and a Provider runs them with a
// per-retriever timeout so a slow or missing tool only empties its own segment.
package context

import (
	"context"
)

// Retriever names used as keys in the map returned by Provider.
const (
	NameVenv   = "venv"
	NameKube   = "kube"
	NameVCS    = "vcs"
	NameChroot = "chroot"
	NameUser   = "user"
	NameHost   = "host"
	NameDir    = "dir"
	NameEUID   = "euid"
)

// Retriever is the interface that all context retrievers must implement.
// Each retriever is responsible for collecting a single prompt fact.
type Retriever interface {
	// Name returns the unique identifier for this retriever.
	// This is used as the key in the context map returned by Provider.
	Name() string

	// GetContext returns the value for this retriever. An empty string means
	// the fact is absent; an error means it could not be determined.
	GetContext(ctx context.Context) (string, error)
}

// CommandRunner runs an external command and reports its stdout and exit code.
// A non-zero exit code is not an error.
type CommandRunner interface {
	RunArgs(ctx context.Context, name string, args ...string) (string, int, error)
}
