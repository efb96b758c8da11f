package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dep2p/go-duet/pkg/types"
)

var (
	primaryColor = lipgloss.Color("#A78BFA")
	mutedColor   = lipgloss.Color("#9CA3AF")
	errorColor   = lipgloss.Color("#F87171")
	surfaceColor = lipgloss.Color("#1F2937")
	textColor    = lipgloss.Color("#F9FAFB")
	borderColor  = lipgloss.Color("#6B7280")

	identityColors = map[types.Identity]lipgloss.Color{
		types.IdentityRed:   lipgloss.Color("#F87171"),
		types.IdentityGreen: lipgloss.Color("#10B981"),
		types.IdentityBlue:  lipgloss.Color("#60A5FA"),
	}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().Foreground(errorColor)

	invitableStyle = lipgloss.NewStyle().Foreground(textColor).Bold(true)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)
)

// identityStyle 返回身份对应的棋子样式
func identityStyle(id types.Identity) lipgloss.Style {
	if c, ok := identityColors[id]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Bold(true)
}
