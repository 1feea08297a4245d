package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/settings"
)

// palette is the set of colours one resolved theme renders with.
type palette struct {
	accent lipgloss.Color
	muted  lipgloss.Color
	good   lipgloss.Color
	warn   lipgloss.Color
	bad    lipgloss.Color
}

var (
	darkPalette = palette{
		accent: lipgloss.Color("#10B981"),
		muted:  lipgloss.Color("#6B6B6B"),
		good:   lipgloss.Color("#34D399"),
		warn:   lipgloss.Color("#F59E0B"),
		bad:    lipgloss.Color("#F87171"),
	}
	lightPalette = palette{
		accent: lipgloss.Color("#047857"),
		muted:  lipgloss.Color("#737373"),
		good:   lipgloss.Color("#059669"),
		warn:   lipgloss.Color("#B45309"),
		bad:    lipgloss.Color("#B91C1C"),
	}
)

type styleSet struct {
	palette palette
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
}

var styles = newStyleSet(darkPalette)

// systemPrefersDark asks the terminal for its background colour.
var systemPrefersDark = lipgloss.HasDarkBackground

func newStyleSet(p palette) styleSet {
	return styleSet{
		palette: p,
		title:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		label:   lipgloss.NewStyle().Foreground(p.accent),
		muted:   lipgloss.NewStyle().Foreground(p.muted),
		good:    lipgloss.NewStyle().Foreground(p.good),
		warn:    lipgloss.NewStyle().Foreground(p.warn).Bold(true),
		bad:     lipgloss.NewStyle().Foreground(p.bad).Bold(true),
	}
}

// applyTheme switches the output palette. It is subscribed to theme changes
// for the lifetime of Execute.
func applyTheme(theme models.Theme) {
	if settings.ResolveTheme(theme, systemPrefersDark()) == models.ThemeLight {
		styles = newStyleSet(lightPalette)
		return
	}
	styles = newStyleSet(darkPalette)
}
