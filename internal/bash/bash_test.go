package bash

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

func newTestRunner(t *testing.T, env ...string) *Runner {
	t.Helper()
	r, err := NewRunner(Options{
		Env: expand.ListEnviron(env...),
		Dir: t.TempDir(),
	})
	require.NoError(t, err)
	return r
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("captures stdout of builtins", func(t *testing.T) {
		r := newTestRunner(t)
		out, code, err := r.Run(ctx, "echo hello")
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Equal(t, "hello\n", out)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		r := newTestRunner(t)
		out, code, err := r.Run(ctx, "echo partial; exit 3")
		require.NoError(t, err)
		assert.Equal(t, 3, code)
		assert.Equal(t, "partial\n", out)
	})

	t.Run("runs every statement", func(t *testing.T) {
		r := newTestRunner(t)
		out, code, err := r.Run(ctx, "echo a; echo b\necho c; exit 4")
		require.NoError(t, err)
		assert.Equal(t, 4, code)
		assert.Equal(t, "a\nb\nc\n", out)
	})

	t.Run("sees the environment snapshot", func(t *testing.T) {
		r := newTestRunner(t, "GREETING=hi")
		out, code, err := r.Run(ctx, "echo $GREETING")
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Equal(t, "hi\n", out)
	})

	t.Run("missing command exits 127", func(t *testing.T) {
		r := newTestRunner(t, "PATH=/nonexistent")
		_, code, err := r.Run(ctx, "definitely-not-a-real-tool --version")
		require.NoError(t, err)
		assert.Equal(t, 127, code)
	})

	t.Run("empty command", func(t *testing.T) {
		r := newTestRunner(t)
		for _, command := range []string{"", "\n", "# just a comment"} {
			out, code, err := r.Run(ctx, command)
			require.NoError(t, err)
			assert.Equal(t, 0, code)
			assert.Empty(t, out)
		}
	})

	t.Run("parse error", func(t *testing.T) {
		r := newTestRunner(t)
		_, code, err := r.Run(ctx, "echo 'unterminated")
		assert.Error(t, err)
		assert.Equal(t, 1, code)
	})

	t.Run("subshells do not leak state", func(t *testing.T) {
		r := newTestRunner(t)
		_, _, err := r.Run(ctx, "LEAK=1")
		require.NoError(t, err)
		out, _, err := r.Run(ctx, "echo \"[$LEAK]\"")
		require.NoError(t, err)
		assert.Equal(t, "[]\n", out)
	})
}

func TestRunner_RunArgs(t *testing.T) {
	r := newTestRunner(t)
	out, code, err := r.RunArgs(context.Background(), "echo", "a b", "$HOME", "it's")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a b $HOME it's\n", out)
}

func TestRunner_ExecHandlers(t *testing.T) {
	var seen []string
	handler := func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if args[0] == "fakecmd" {
				seen = append(seen, args...)
				_, _ = interp.HandlerCtx(ctx).Stdout.Write([]byte("faked\n"))
				return nil
			}
			return next(ctx, args)
		}
	}

	r, err := NewRunner(Options{ExecHandlers: []ExecMiddleware{handler}})
	require.NoError(t, err)

	out, code, err := r.Run(context.Background(), "fakecmd one two")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "faked\n", out)
	assert.Equal(t, []string{"fakecmd", "one", "two"}, seen)
}

func TestRunner_Timeout(t *testing.T) {
	r, err := NewRunner(Options{
		Env:         expand.ListEnviron("PATH=/usr/bin:/bin"),
		KillTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err = r.Run(ctx, "sleep 5")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
