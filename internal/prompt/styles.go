package prompt

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/atinylittleshell/gprompt/internal/config"
)

// Theme holds the colours and glyphs a Composer draws with.
type Theme struct {
	Venv     lipgloss.Color
	Kube     lipgloss.Color
	Identity lipgloss.Color
	Path     lipgloss.Color
	VCS      lipgloss.Color
	Error    lipgloss.Color

	Glyph     string
	RootGlyph string

	// MaxPathWidth and MaxKubeWidth are cell limits; 0 disables them.
	MaxPathWidth int
	MaxKubeWidth int
}

// DefaultTheme returns the theme of the default configuration.
func DefaultTheme() Theme {
	return ThemeFromConfig(config.DefaultConfig())
}

// ThemeFromConfig builds a Theme from the user's configuration.
func ThemeFromConfig(cfg *config.Config) Theme {
	return Theme{
		Venv:         lipgloss.Color(cfg.Colors.Venv),
		Kube:         lipgloss.Color(cfg.Colors.Kube),
		Identity:     lipgloss.Color(cfg.Colors.Identity),
		Path:         lipgloss.Color(cfg.Colors.Path),
		VCS:          lipgloss.Color(cfg.Colors.VCS),
		Error:        lipgloss.Color(cfg.Colors.Error),
		Glyph:        cfg.Glyph,
		RootGlyph:    cfg.RootGlyph,
		MaxPathWidth: cfg.MaxPathWidth,
		MaxKubeWidth: cfg.MaxKubeWidth,
	}
}

// styles are the lipgloss styles derived from a Theme for one renderer.
type styles struct {
	venv     lipgloss.Style
	kube     lipgloss.Style
	identity lipgloss.Style
	path     lipgloss.Style
	vcs      lipgloss.Style
	err      lipgloss.Style
}

func newStyles(theme Theme, profile termenv.Profile) styles {
	// The prompt is usually captured by the shell rather than written to a
	// terminal, so the profile is pinned instead of detected from the writer.
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	return styles{
		venv:     r.NewStyle().Foreground(theme.Venv),
		kube:     r.NewStyle().Foreground(theme.Kube),
		identity: r.NewStyle().Foreground(theme.Identity).Bold(true),
		path:     r.NewStyle().Foreground(theme.Path),
		vcs:      r.NewStyle().Foreground(theme.VCS),
		err:      r.NewStyle().Foreground(theme.Error).Bold(true),
	}
}

// ProfileFor maps a config colour mode to a termenv profile. detect reports
// the profile of the terminal the shell runs in and is only called in auto
// mode. NO_COLOR always wins.
func ProfileFor(mode string, noColor bool, detect func() termenv.Profile) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAuto:
		if detect == nil {
			return termenv.Ascii
		}
		return detect()
	default:
		return termenv.ANSI256
	}
}
