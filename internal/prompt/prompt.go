// Package prompt renders the interactive shell prompt.
//
// A prompt is built from a Context sampled right before rendering:
//
//	(venv:myenv) (k8s:prod) (chroot)user@host:~/src/app (main *>)
//	$
//
// The badges, the chroot label and the VCS segment are optional and simply
// disappear when their value is empty. The identity segment and the status
// line are always present. Rendering has no failure mode.
package prompt

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"
	"github.com/samber/lo"
)

// Context is the state one prompt is rendered from. It is sampled fresh for
// every prompt and never reused.
type Context struct {
	ExitStatus int

	// Optional values; the empty string means absent.
	ChrootLabel string
	VenvName    string
	KubeContext string
	VCSStatus   string

	User string
	Host string
	Dir  string

	// Root selects the root glyph.
	Root bool
}

// Composer renders Contexts with a fixed theme and colour profile.
type Composer struct {
	theme   Theme
	profile termenv.Profile
	styles  styles
}

// NewComposer creates a Composer. Use termenv.Ascii for uncoloured output.
func NewComposer(theme Theme, profile termenv.Profile) *Composer {
	return &Composer{
		theme:   theme,
		profile: profile,
		styles:  newStyles(theme, profile),
	}
}

// Render returns the prompt for ctx, including embedded escape sequences.
func (c *Composer) Render(ctx Context) string {
	var b strings.Builder

	badges := lo.Compact([]string{
		badge(c.styles.venv, "venv", ctx.VenvName),
		badge(c.styles.kube, "k8s", truncateWidth(ctx.KubeContext, c.theme.MaxKubeWidth)),
	})
	for _, s := range badges {
		b.WriteString(s)
		b.WriteByte(' ')
	}

	if ctx.ChrootLabel != "" {
		b.WriteString("(" + ctx.ChrootLabel + ")")
	}
	if identity := joinNonEmpty("@", ctx.User, ctx.Host); identity != "" {
		b.WriteString(c.styles.identity.Render(identity))
		b.WriteByte(':')
	}
	b.WriteString(c.styles.path.Render(shortenPath(ctx.Dir, c.theme.MaxPathWidth)))

	if ctx.VCSStatus != "" {
		b.WriteByte(' ')
		b.WriteString(c.styles.vcs.Render("(" + ctx.VCSStatus + ")"))
	}

	b.WriteByte('\n')
	b.WriteString(c.glyph(ctx))
	b.WriteByte(' ')

	return b.String()
}

// glyph colours the prompt symbol by the previous exit status.
func (c *Composer) glyph(ctx Context) string {
	glyph := c.theme.Glyph
	if ctx.Root && c.theme.RootGlyph != "" {
		glyph = c.theme.RootGlyph
	}
	if ctx.ExitStatus != 0 {
		return c.styles.err.Render(glyph)
	}
	if c.profile == termenv.Ascii {
		return glyph
	}
	return termenv.CSI + termenv.ResetSeq + "m" + glyph
}

func badge(style lipgloss.Style, label, value string) string {
	if value == "" {
		return ""
	}
	return style.Render("(" + label + ":" + value + ")")
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(lo.Compact(parts), sep)
}

// truncateWidth cuts s to max cells, marking the cut with an ellipsis.
func truncateWidth(s string, max int) string {
	if max <= 0 || uniseg.StringWidth(s) <= max {
		return s
	}
	return truncate.StringWithTail(s, uint(max), "…")
}

// shortenPath drops leading path components until dir fits in max cells.
// The last component is always kept, even when it alone is too wide.
func shortenPath(dir string, max int) string {
	if max <= 0 || uniseg.StringWidth(dir) <= max {
		return dir
	}
	parts := strings.Split(dir, "/")
	for i := 1; i < len(parts)-1; i++ {
		candidate := "…/" + strings.Join(parts[i:], "/")
		if uniseg.StringWidth(candidate) <= max {
			return candidate
		}
	}
	return "…/" + parts[len(parts)-1]
}
