package model

import (
	"github.com/byxorna/shipwright/pkg/ui"
	"github.com/charmbracelet/lipgloss"
)

var (
	fuchsia   = lipgloss.Color("205")
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

	dividerDot = ui.DarkGrayFg(" • ")
	dividerBar = ui.DarkGrayFg(" │ ")

	promptStyle  = lipgloss.NewStyle().Foreground(ui.YellowGreen.Adaptive())
	spinnerStyle = lipgloss.NewStyle().Foreground(ui.Fuchsia.Adaptive())

	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1, 2)

	formBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1)

	labelStyle        = lipgloss.NewStyle().Width(14).Foreground(lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"})
	focusedLabelStyle = labelStyle.Copy().Foreground(fuchsia).Bold(true)
	fieldErrorStyle   = lipgloss.NewStyle().Foreground(ui.Red.Adaptive()).PaddingLeft(14)
	cursorStyle       = lipgloss.NewStyle().Foreground(fuchsia)
)
