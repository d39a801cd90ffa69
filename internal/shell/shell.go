package shell

import (
	"fmt"
	"strings"

	"github.com/muesli/ansi"
	"mvdan.cc/sh/v3/syntax"
)

// Supported shell names.
const (
	Bash = "bash"
	Zsh  = "zsh"
	Fish = "fish"
	None = "none"
)

// Shells lists the shells HookSnippet supports.
var Shells = []string{Bash, Zsh, Fish}

// HookSnippet returns the snippet that installs gprompt in shellType.
// exe is the path of the gprompt binary; it is quoted for the target shell.
func HookSnippet(shellType, exe string) (string, error) {
	switch shellType {
	case Bash:
		quoted, err := syntax.Quote(exe, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("cannot quote %q: %w", exe, err)
		}
		return fmt.Sprintf(`# gprompt shell integration (bash)
_gprompt_command() {
  local last_status=$?
  _GPROMPT_PS1="$(%s -shell bash -status "$last_status")"
  return $last_status
}
PS1='${_GPROMPT_PS1}'
if [[ ";${PROMPT_COMMAND[*]:-};" != *";_gprompt_command;"* ]]; then
  PROMPT_COMMAND="_gprompt_command${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
fi
`, quoted), nil
	case Zsh:
		quoted, err := syntax.Quote(exe, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("cannot quote %q: %w", exe, err)
		}
		return fmt.Sprintf(`# gprompt shell integration (zsh)
_gprompt_precmd() {
  local last_status=$?
  PROMPT="$(%s -shell zsh -status "$last_status")"
}
# no_prompt_subst keeps directory and branch names from being expanded. It
# applies to the whole session, so an RPROMPT relying on $(...) stops working.
setopt no_prompt_subst
precmd_functions=(${precmd_functions:#_gprompt_precmd} _gprompt_precmd)
`, quoted), nil
	case Fish:
		return fmt.Sprintf(`# gprompt shell integration (fish)
function fish_prompt
  set -l last_status $status
  %s -shell fish -status $last_status
end
`, fishQuote(exe)), nil
	default:
		return "", fmt.Errorf("unsupported shell %q (supported: %s)", shellType, strings.Join(Shells, ", "))
	}
}

// fishQuote single-quotes s for fish, which only treats \\ and \' as escapes
// inside single quotes.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// Escape prepares a rendered prompt for shellType's prompt variable.
//
// Bash: escape sequences are wrapped in the readline markers \001 and \002.
// The hook assigns the prompt through a variable referenced from PS1, so the
// text itself is never decoded or expanded again.
//
// Zsh: escape sequences are wrapped in %{ %} and literal % is doubled.
//
// Fish and None: the prompt is printed as is.
func Escape(prompt, shellType string) string {
	switch shellType {
	case Bash:
		return wrapSequences(prompt, "\x01", "\x02", nil)
	case Zsh:
		return wrapSequences(prompt, "%{", "%}", func(r rune) string {
			if r == '%' {
				return "%%"
			}
			return string(r)
		})
	default:
		return prompt
	}
}

// wrapSequences surrounds every ANSI escape sequence in s with open and close
// and passes printable runes through text (if not nil).
func wrapSequences(s, open, close string, text func(rune) string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inSeq = true
			b.WriteString(open)
			b.WriteRune(r)
		case inSeq:
			b.WriteRune(r)
			if ansi.IsTerminator(r) {
				inSeq = false
				b.WriteString(close)
			}
		case text != nil:
			b.WriteString(text(r))
		default:
			b.WriteRune(r)
		}
	}
	if inSeq {
		b.WriteString(close)
	}
	return b.String()
}
