package context

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GitStatusRetriever retrieves the branch and working tree state of the git
// repository containing the working directory.
type GitStatusRetriever struct {
	runner CommandRunner
}

// NewGitStatusRetriever creates a new GitStatusRetriever.
func NewGitStatusRetriever(runner CommandRunner) *GitStatusRetriever {
	return &GitStatusRetriever{runner: runner}
}

// Name returns the retriever name.
func (r *GitStatusRetriever) Name() string {
	return NameVCS
}

// GetContext returns the status in the style of git's own __git_ps1, e.g.
// "main *+%<>". Returns an error outside a repository.
func (r *GitStatusRetriever) GetContext(ctx context.Context) (string, error) {
	out, code, err := r.runner.RunArgs(ctx, "git", "status", "--porcelain=v2", "--branch")
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("git status: exit status %d", code)
	}

	status, err := ParseGitStatus(out)
	if err != nil {
		return "", err
	}
	return status.String(), nil
}

// GitStatus is the parsed output of `git status --porcelain=v2 --branch`.
type GitStatus struct {
	Branch      string
	OID         string
	Detached    bool
	HasUpstream bool
	Ahead       int
	Behind      int
	Staged      bool
	Unstaged    bool
	Untracked   bool
}

// ParseGitStatus parses porcelain v2 output with branch headers.
func ParseGitStatus(out string) (GitStatus, error) {
	var st GitStatus
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "# branch.oid "):
			st.OID = strings.TrimPrefix(line, "# branch.oid ")
		case strings.HasPrefix(line, "# branch.head "):
			st.Branch = strings.TrimPrefix(line, "# branch.head ")
			st.Detached = st.Branch == "(detached)"
		case strings.HasPrefix(line, "# branch.upstream "):
			st.HasUpstream = true
		case strings.HasPrefix(line, "# branch.ab "):
			if err := parseAheadBehind(strings.TrimPrefix(line, "# branch.ab "), &st); err != nil {
				return GitStatus{}, err
			}
		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "):
			if len(line) < 4 {
				return GitStatus{}, fmt.Errorf("malformed status line %q", line)
			}
			st.Staged = st.Staged || line[2] != '.'
			st.Unstaged = st.Unstaged || line[3] != '.'
		case strings.HasPrefix(line, "u "):
			st.Unstaged = true
		case strings.HasPrefix(line, "? "):
			st.Untracked = true
		}
	}
	if err := scanner.Err(); err != nil {
		return GitStatus{}, err
	}
	if st.Branch == "" {
		return GitStatus{}, fmt.Errorf("no branch header in git status output")
	}
	return st, nil
}

func parseAheadBehind(s string, st *GitStatus) error {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return fmt.Errorf("malformed branch.ab header %q", s)
	}
	ahead, err := strconv.Atoi(strings.TrimPrefix(fields[0], "+"))
	if err != nil {
		return fmt.Errorf("malformed ahead count: %w", err)
	}
	behind, err := strconv.Atoi(strings.TrimPrefix(fields[1], "-"))
	if err != nil {
		return fmt.Errorf("malformed behind count: %w", err)
	}
	st.Ahead, st.Behind = ahead, behind
	return nil
}

// String formats the status as branch, then a space and the state flags
// (* unstaged, + staged, % untracked) if any, then the upstream marker
// (= equal, > ahead, < behind, <> diverged).
func (s GitStatus) String() string {
	var b strings.Builder

	switch {
	case s.Detached && len(s.OID) >= 7:
		b.WriteString("(" + s.OID[:7] + "...)")
	case s.Detached:
		b.WriteString("(detached)")
	default:
		b.WriteString(s.Branch)
	}

	var flags string
	if s.Unstaged {
		flags += "*"
	}
	if s.Staged {
		flags += "+"
	}
	if s.Untracked {
		flags += "%"
	}
	if flags != "" {
		b.WriteString(" " + flags)
	}

	if s.HasUpstream {
		switch {
		case s.Ahead > 0 && s.Behind > 0:
			b.WriteString("<>")
		case s.Ahead > 0:
			b.WriteString(">")
		case s.Behind > 0:
			b.WriteString("<")
		default:
			b.WriteString("=")
		}
	}

	return b.String()
}
