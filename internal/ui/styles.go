package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Base styles
	BaseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	// Header styles
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Underline(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Margin(0, 1)

	ActiveTabStyle = TabStyle.
			Foreground(lipgloss.Color("36")).
			Bold(true).
			Underline(true)

	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("241"))

	// Data styles
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Apps list
	RowNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	RowSizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// Alert box shown after an action completes
	AlertStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("36")).
			Padding(1, 4).
			Bold(true)

	AlertErrorStyle = AlertStyle.
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("196"))
)

// ChartPalette colors pie slices in order, wrapping around for more apps.
var ChartPalette = []lipgloss.Color{
	lipgloss.Color("#6366f1"),
	lipgloss.Color("#22d3ee"),
	lipgloss.Color("#facc15"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f87171"),
	lipgloss.Color("#8b5cf6"),
}

// severityStyle picks a color for a usage percentage.
func severityStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 90:
		return ErrorStyle
	case percent >= 70:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
