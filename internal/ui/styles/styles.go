// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Semantic colors - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Item names, primary text
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	// Semantic colors - Accent and status
	HighlightColor     = lipgloss.AdaptiveColor{Light: "#2E86DE", Dark: "#54A0FF"} // Cursor row, focused input
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Border colors
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusColor   = HighlightColor

	// Priority badge colors, indexed urgent to low.
	PriorityHighColor   = lipgloss.AdaptiveColor{Light: "#D63031", Dark: "#FF6B6B"}
	PriorityMediumColor = lipgloss.AdaptiveColor{Light: "#E17055", Dark: "#FECA57"}
	PriorityLowColor    = lipgloss.AdaptiveColor{Light: "#00B894", Dark: "#73F59F"}
)

var (
	CursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	ItemStyle      = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MutedStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle     = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle   = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	PanelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderDefaultColor).Padding(0, 1)
	FocusPanelStyle = PanelStyle.BorderForeground(BorderFocusColor)
)

// ThemeConfig mirrors config.ThemeConfig to avoid a circular import.
type ThemeConfig struct {
	Highlight string
	Subtle    string
	Error     string
	Success   string
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ApplyTheme overrides the default palette with configured colors and
// rebuilds the exported styles. Empty fields keep their defaults.
func ApplyTheme(cfg ThemeConfig) error {
	overrides := []struct {
		hex    string
		target *lipgloss.AdaptiveColor
	}{
		{cfg.Highlight, &HighlightColor},
		{cfg.Subtle, &TextMutedColor},
		{cfg.Error, &StatusErrorColor},
		{cfg.Success, &StatusSuccessColor},
	}
	for _, o := range overrides {
		if o.hex == "" {
			continue
		}
		if !hexColorRe.MatchString(o.hex) {
			return fmt.Errorf("invalid hex color: %s", o.hex)
		}
		o.target.Light = o.hex
		o.target.Dark = o.hex
	}
	rebuildStyles()
	return nil
}

func rebuildStyles() {
	BorderFocusColor = HighlightColor
	CursorStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	FocusPanelStyle = PanelStyle.BorderForeground(BorderFocusColor)
}

// PriorityColor returns the badge color for a priority in 1..3.
func PriorityColor(priority int) lipgloss.AdaptiveColor {
	switch priority {
	case 1:
		return PriorityHighColor
	case 2:
		return PriorityMediumColor
	default:
		return PriorityLowColor
	}
}
