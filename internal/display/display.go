// Package display provides styled terminal output for the REPL. All
// rendering is plain line-oriented printing; styles only color the
// text.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Chat — soft sky blue for assistant replies.
	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Header — soft mint for section headers.
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text — light zinc for recipe and concept lines.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints and metadata.
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent — soft coral for errors.
	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)
)

// Chat prints an assistant reply.
func Chat(format string, args ...any) {
	fmt.Println(chatStyle.Render(fmt.Sprintf(format, args...)))
}

// Header prints a section header.
func Header(format string, args ...any) {
	fmt.Println(headerStyle.Render(fmt.Sprintf(format, args...)))
}

// Line prints a primary content line.
func Line(format string, args ...any) {
	fmt.Println(primaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Hint prints a dimmed secondary line.
func Hint(format string, args ...any) {
	fmt.Println(hintStyle.Render(fmt.Sprintf(format, args...)))
}

// Urgent prints an error line to stderr.
func Urgent(format string, args ...any) {
	fmt.Fprintln(os.Stderr, urgentStyle.Render(fmt.Sprintf(format, args...)))
}
