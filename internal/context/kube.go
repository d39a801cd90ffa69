package context

import (
	"context"
	"fmt"
	"strings"
)

// KubeRetriever reports the current Kubernetes context via kubectl.
type KubeRetriever struct {
	runner CommandRunner
}

// NewKubeRetriever creates a new KubeRetriever.
func NewKubeRetriever(runner CommandRunner) *KubeRetriever {
	return &KubeRetriever{runner: runner}
}

// Name returns the retriever name.
func (r *KubeRetriever) Name() string {
	return NameKube
}

// GetContext returns the current context name. kubectl exits non-zero when
// no context is set, which is reported as an error and treated as absent.
func (r *KubeRetriever) GetContext(ctx context.Context) (string, error) {
	out, code, err := r.runner.RunArgs(ctx, "kubectl", "config", "current-context")
	if err != nil {
		return "", fmt.Errorf("kubectl config current-context: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("kubectl config current-context: exit status %d", code)
	}
	return strings.TrimSpace(out), nil
}
