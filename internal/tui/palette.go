package tui

import "github.com/charmbracelet/lipgloss"

// Colours pick a light or dark variant from the terminal background.
var (
	ColorInk       = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#E5E9F0"}
	ColorDim       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#7A8291"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#2F7A8C", Dark: "#88C0D0"}
	ColorAccentAlt = lipgloss.AdaptiveColor{Light: "#4C6A92", Dark: "#81A1C1"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#4F7A34", Dark: "#A3BE8C"}
	ColorWarn      = lipgloss.AdaptiveColor{Light: "#A0522D", Dark: "#EBCB8B"}
)
