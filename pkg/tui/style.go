package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mynaturejourney/journey/pkg/memories"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	marqueeTickDuration = time.Duration(time.Second / 20)

	bordersAndPaddingWidth = 4
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	textRedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	textOkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Function to colorize text based on its status
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// privacyBadge renders the Thai privacy label on a colored background.
func privacyBadge(p memories.PrivacyLevel) string {
	bg := colorGreenDim
	switch p {
	case memories.PrivacyPrivate:
		bg = colorRedDim
	case memories.PrivacyPublic:
		bg = colorBlue
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorGray)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(p.Label())
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

// Scroll text that does not fit into availableWidth
func marqueeText(text string, offset, availableWidth int) string {
	runes := []rune(text)
	if len(runes) <= availableWidth || availableWidth <= 0 {
		return text
	}
	padded := append(append(append([]rune{}, runes...), []rune("    ")...), runes...)
	start := offset % (len(runes) + 4)
	return string(padded[start : start+availableWidth])
}

// Truncate text to availableWidth runes with a ".." suffix
func truncateText(text string, availableWidth int) string {
	runes := []rune(text)
	if len(runes) <= availableWidth || availableWidth <= 3 {
		return text
	}
	return string(runes[:availableWidth-2]) + ".."
}

// Split the width between the trip list and the detail pane
func columnWidths(width int, detailFocused bool) (int, int) {
	left := (width * 40) / 100
	if detailFocused {
		left = (width * 25) / 100
	}
	return left, width - left
}
