package ui

import (
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// UI layout constants.
const (
	defaultMargin  = 2
	defaultPadding = 2
)

// GetBlockStyles returns the styles of the release preview: one for the
// title and one for the notes block.
func GetBlockStyles() (lipgloss.Style, lipgloss.Style) {
	colorScheme := GetFangScheme()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorScheme.QuotedString).
		Transform(strings.ToUpper).
		Padding(1, 0).
		Margin(0, defaultMargin)

	blockStyle := lipgloss.NewStyle().
		Background(colorScheme.Codeblock).
		Foreground(colorScheme.Base).
		MarginLeft(defaultMargin).
		Padding(1, defaultPadding)
	return titleStyle, blockStyle
}

// PromptStyles are the styles of an interactive yes/no question.
type PromptStyles struct {
	Question lipgloss.Style
	Hint     lipgloss.Style
	Retry    lipgloss.Style
}

// GetPromptStyles derives prompt styles from the fang scheme.
func GetPromptStyles() PromptStyles {
	colorScheme := GetFangScheme()

	return PromptStyles{
		Question: lipgloss.NewStyle().Bold(true).Foreground(colorScheme.Title),
		Hint:     lipgloss.NewStyle().Foreground(colorScheme.Flag),
		Retry:    lipgloss.NewStyle().Foreground(colorScheme.ErrorDetails),
	}
}
