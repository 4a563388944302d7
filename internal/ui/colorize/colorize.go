// Package colorize provides terminal styling for trace and hexdump
// output. Shares one color scheme between the CLI printers and the TUI.
package colorize

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// IDA-style theme colors
const (
	IDAAddress  = "#808080" // Gray for addresses
	IDAMnemonic = "#FFFFFF" // White for mnemonics
	IDANumber   = "#FF80C0" // Light pink for numbers
	IDALabel    = "#FFC800" // Yellow for labels/device names
	IDAComment  = "#FF8000" // Orange for comments
	IDAString   = "#00FF00" // Green for strings
	IDAHexBytes = "#646464" // Dark gray for hex bytes
	IDAError    = "#FF4040" // Red for errors
	IDABorder   = "#404040" // Dim borders
)

var (
	addressStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAAddress))
	hexStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAHexBytes))
	instructionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAMnemonic))
	commentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAComment))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(IDALabel))
	detailStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAAddress))
	stringStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAString))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAError))
	borderStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(IDABorder))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(IDALabel)).Bold(true)
)

// Address renders a 16-bit address.
func Address(addr uint16) string {
	return addressStyle.Render(fmt.Sprintf("%04x", addr))
}

// HexBytes renders raw hex bytes.
func HexBytes(s string) string {
	return hexStyle.Render(s)
}

// Instruction renders a mnemonic.
func Instruction(s string) string {
	return instructionStyle.Render(s)
}

// Comment renders a trailing comment.
func Comment(s string) string {
	return commentStyle.Render(s)
}

// Label renders a device or vector name.
func Label(s string) string {
	return labelStyle.Render(s)
}

// Detail renders secondary detail text.
func Detail(s string) string {
	return detailStyle.Render(s)
}

// String renders string data.
func String(s string) string {
	return stringStyle.Render(s)
}

// Error renders an error message.
func Error(s string) string {
	return errorStyle.Render(s)
}

// Border renders rules and separators.
func Border(s string) string {
	return borderStyle.Render(s)
}

// Header renders section headings.
func Header(s string) string {
	return headerStyle.Render(s)
}
