package context

import (
	"context"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"

	"github.com/atinylittleshell/gprompt/internal/config"
	"github.com/atinylittleshell/gprompt/internal/prompt"
)

// Sources holds what the standard retrievers read from.
type Sources struct {
	Env    expand.Environ
	Runner CommandRunner
	Config *config.Config
	Logger *zap.Logger
}

// NewDefaultProvider returns a Provider with the identity retrievers plus the
// optional segments enabled in the configuration, in prompt order.
func NewDefaultProvider(s Sources) *Provider {
	cfg := s.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	p := NewProvider(s.Logger, cfg.Timeout)
	if cfg.Segments.Venv {
		p.AddRetriever(NewVenvRetriever(s.Env))
	}
	if cfg.Segments.Kube && s.Runner != nil {
		p.AddRetriever(NewKubeRetriever(s.Runner))
	}
	if cfg.Segments.Chroot {
		p.AddRetriever(NewChrootRetriever(s.Env, cfg.ChrootFile))
	}
	p.AddRetriever(NewUserRetriever(s.Env))
	p.AddRetriever(NewHostRetriever())
	p.AddRetriever(NewWorkingDirectoryRetriever(s.Env))
	p.AddRetriever(NewEUIDRetriever())
	if cfg.Segments.VCS && s.Runner != nil {
		p.AddRetriever(NewGitStatusRetriever(s.Runner))
	}
	return p
}

// Collect samples every retriever of p and returns the prompt context for
// this cycle.
func Collect(ctx context.Context, p *Provider, exitStatus int) prompt.Context {
	values := p.GetContext(ctx)
	return prompt.Context{
		ExitStatus:  exitStatus,
		ChrootLabel: values[NameChroot],
		VenvName:    values[NameVenv],
		KubeContext: values[NameKube],
		VCSStatus:   values[NameVCS],
		User:        values[NameUser],
		Host:        values[NameHost],
		Dir:         values[NameDir],
		Root:        values[NameEUID] == "0",
	}
}
