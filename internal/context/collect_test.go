package context

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/expand"

	"github.com/atinylittleshell/gprompt/internal/config"
)

func retrieverNames(p *Provider) []string {
	return lo.Map(p.retrievers, func(r Retriever, _ int) string { return r.Name() })
}

func TestNewDefaultProvider(t *testing.T) {
	t.Run("all segments", func(t *testing.T) {
		p := NewDefaultProvider(Sources{
			Env:    expand.ListEnviron(),
			Runner: &fakeRunner{},
			Config: config.DefaultConfig(),
		})
		assert.Equal(t,
			[]string{NameVenv, NameKube, NameChroot, NameUser, NameHost, NameDir, NameEUID, NameVCS},
			retrieverNames(p))
		assert.Equal(t, config.DefaultConfig().Timeout, p.timeout)
	})

	t.Run("disabled segments", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Segments = config.Segments{}
		p := NewDefaultProvider(Sources{Env: expand.ListEnviron(), Runner: &fakeRunner{}, Config: cfg})
		assert.Equal(t, []string{NameUser, NameHost, NameDir, NameEUID}, retrieverNames(p))
	})

	t.Run("no runner skips external queries", func(t *testing.T) {
		p := NewDefaultProvider(Sources{Env: expand.ListEnviron()})
		assert.NotContains(t, retrieverNames(p), NameKube)
		assert.NotContains(t, retrieverNames(p), NameVCS)
	})
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("maps every value", func(t *testing.T) {
		p := NewProvider(nil, 0,
			&mockRetriever{name: NameVenv, context: "myenv"},
			&mockRetriever{name: NameKube, context: "prod"},
			&mockRetriever{name: NameChroot, context: "jail"},
			&mockRetriever{name: NameVCS, context: "main *"},
			&mockRetriever{name: NameUser, context: "root"},
			&mockRetriever{name: NameHost, context: "box"},
			&mockRetriever{name: NameDir, context: "/etc"},
			&mockRetriever{name: NameEUID, context: "0"},
		)

		got := Collect(ctx, p, 2)
		assert.Equal(t, 2, got.ExitStatus)
		assert.Equal(t, "myenv", got.VenvName)
		assert.Equal(t, "prod", got.KubeContext)
		assert.Equal(t, "jail", got.ChrootLabel)
		assert.Equal(t, "main *", got.VCSStatus)
		assert.Equal(t, "root", got.User)
		assert.Equal(t, "box", got.Host)
		assert.Equal(t, "/etc", got.Dir)
		assert.True(t, got.Root)
	})

	t.Run("unavailable sources degrade to empty", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.DefaultConfig()
		cfg.ChrootFile = filepath.Join(dir, "missing")

		p := NewDefaultProvider(Sources{
			Env:    expand.ListEnviron("USER=me", "PWD="+dir, "HOME="+dir),
			Runner: &fakeRunner{},
			Config: cfg,
		})

		got := Collect(ctx, p, 0)
		assert.Empty(t, got.VenvName)
		assert.Empty(t, got.KubeContext)
		assert.Empty(t, got.VCSStatus)
		assert.Empty(t, got.ChrootLabel)
		assert.Equal(t, "me", got.User)
		assert.Equal(t, "~", got.Dir)
	})

	t.Run("sources are sampled every cycle", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]fakeResult{kubeCmd: {out: "a"}}}
		p := NewDefaultProvider(Sources{Env: expand.ListEnviron(), Runner: runner})

		require.Equal(t, "a", Collect(ctx, p, 0).KubeContext)
		runner.results[kubeCmd] = fakeResult{out: "b"}
		assert.Equal(t, "b", Collect(ctx, p, 0).KubeContext)
	})
}
