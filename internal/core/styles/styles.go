// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported semantic colors, rebuilt by SetTheme.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color

	// Diff line backgrounds, the status color faded into the background.
	ColorAddedBg   color.Color
	ColorRemovedBg color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	LabelStyle         lipgloss.Style
	ValueStyle         lipgloss.Style

	// Score bands.
	ScoreGoodStyle lipgloss.Style
	ScoreFairStyle lipgloss.Style
	ScorePoorStyle lipgloss.Style

	// Vulnerability severities.
	SeverityCriticalStyle lipgloss.Style
	SeverityHighStyle     lipgloss.Style
	SeverityMediumStyle   lipgloss.Style
	SeverityLowStyle      lipgloss.Style

	// TUI.
	PaneStyle         lipgloss.Style
	PaneFocusedStyle  lipgloss.Style
	TitleStyle        lipgloss.Style
	TabActiveStyle    lipgloss.Style
	TabInactiveStyle  lipgloss.Style
	BadgeStyle        lipgloss.Style
	ListSelectedStyle lipgloss.Style
	ListNormalStyle   lipgloss.Style
	CategoryStyle     lipgloss.Style
	LineNumberStyle   lipgloss.Style
	HighlightLine     lipgloss.Style
	ModelTagStyle     lipgloss.Style
	HelpStyle         lipgloss.Style
	EmptyStyle        lipgloss.Style

	DiffAddedStyle   lipgloss.Style
	DiffRemovedStyle lipgloss.Style
	DiffContextStyle lipgloss.Style
	DiffHunkStyle    lipgloss.Style

	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	ColorAddedBg = Blend(p.Background, p.Success, 0.18)
	ColorRemovedBg = Blend(p.Background, p.Error, 0.18)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	LabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ValueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)

	ScoreGoodStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	ScoreFairStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	ScorePoorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	SeverityCriticalStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorError).
		Bold(true).
		Padding(0, 1)
	SeverityHighStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	SeverityMediumStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	SeverityLowStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	PaneFocusedStyle = PaneStyle.
		BorderForeground(ColorPrimary)
	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	TabActiveStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	TabInactiveStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	BadgeStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSurface).
		Padding(0, 1)
	ListSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Bold(true)
	ListNormalStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	CategoryStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	LineNumberStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HighlightLine = lipgloss.NewStyle().
		Background(ColorSurface)
	ModelTagStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	EmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	DiffAddedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Background(ColorAddedBg)
	DiffRemovedStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Background(ColorRemovedBg)
	DiffContextStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DiffHunkStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Faint(true)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Background(ColorBackground).
		Foreground(ColorForeground).
		Padding(0, 1)
	ToastInfoStyle = toastBase.BorderForeground(ColorPrimary)
	ToastWarningStyle = toastBase.BorderForeground(ColorWarning)
	ToastErrorStyle = toastBase.BorderForeground(ColorError)
}

// UseTheme activates the named theme, falling back to DefaultTheme. It
// reports whether name was found.
func UseTheme(name string) bool {
	p, ok := themes[name]
	if !ok {
		p = themes[DefaultTheme]
	}
	SetTheme(p)
	return ok
}

// ScoreStyle returns the style for a score band name ("good", "fair", "poor").
func ScoreStyle(band string) lipgloss.Style {
	switch band {
	case "good":
		return ScoreGoodStyle
	case "fair":
		return ScoreFairStyle
	default:
		return ScorePoorStyle
	}
}

// SeverityStyle returns the style for a vulnerability severity.
func SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return SeverityCriticalStyle
	case "high":
		return SeverityHighStyle
	case "medium":
		return SeverityMediumStyle
	default:
		return SeverityLowStyle
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
