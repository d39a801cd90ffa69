package shell_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"

	"github.com/atinylittleshell/gprompt/internal/shell"
)

const red = "\x1b[91m"
const reset = "\x1b[0m"

func TestHookSnippet_Bash(t *testing.T) {
	snippet, err := shell.HookSnippet(shell.Bash, "/opt/my tools/gprompt")
	require.NoError(t, err)

	assert.Contains(t, snippet, `'/opt/my tools/gprompt' -shell bash -status "$last_status"`)
	assert.Contains(t, snippet, `PS1='${_GPROMPT_PS1}'`)
	assert.Contains(t, snippet, "PROMPT_COMMAND=")

	_, err = syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(snippet), "hook.bash")
	assert.NoError(t, err)
}

func TestHookSnippet_Zsh(t *testing.T) {
	snippet, err := shell.HookSnippet(shell.Zsh, "/usr/local/bin/gprompt")
	require.NoError(t, err)

	assert.Contains(t, snippet, `PROMPT="$(/usr/local/bin/gprompt -shell zsh -status "$last_status")"`)
	assert.Contains(t, snippet, "precmd_functions=")
	assert.Contains(t, snippet, "setopt no_prompt_subst")
	assert.Contains(t, snippet, "RPROMPT")
}

func TestHookSnippet_Fish(t *testing.T) {
	snippet, err := shell.HookSnippet(shell.Fish, `/home/o'neil/bin/gprompt`)
	require.NoError(t, err)

	assert.Contains(t, snippet, "function fish_prompt")
	assert.Contains(t, snippet, `'/home/o\'neil/bin/gprompt' -shell fish -status $last_status`)
}

func TestHookSnippet_Unsupported(t *testing.T) {
	_, err := shell.HookSnippet("tcsh", "/usr/bin/gprompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
}

func TestEscape(t *testing.T) {
	prompt := red + "(k8s:prod)" + reset + " me@box:~/100%\n" + reset + "$ "

	tests := []struct {
		shell string
		want  string
	}{
		{
			shell: shell.Bash,
			want:  "\x01" + red + "\x02(k8s:prod)\x01" + reset + "\x02 me@box:~/100%\n\x01" + reset + "\x02$ ",
		},
		{
			shell: shell.Zsh,
			want:  "%{" + red + "%}(k8s:prod)%{" + reset + "%} me@box:~/100%%\n%{" + reset + "%}$ ",
		},
		{shell: shell.Fish, want: prompt},
		{shell: shell.None, want: prompt},
		{shell: "", want: prompt},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			assert.Equal(t, tt.want, shell.Escape(prompt, tt.shell))
		})
	}
}

func TestEscape_PlainText(t *testing.T) {
	assert.Equal(t, "user@host:$(whoami)\n$ ", shell.Escape("user@host:$(whoami)\n$ ", shell.Bash))
	assert.Equal(t, "50%% done", shell.Escape("50% done", shell.Zsh))
}

func TestEscape_UnterminatedSequence(t *testing.T) {
	assert.Equal(t, "ok\x01\x1b[3\x02", shell.Escape("ok\x1b[3", shell.Bash))
}
