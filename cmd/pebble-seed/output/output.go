// Package output prints styled status lines for the pebble-seed command.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

var (
	w     io.Writer = os.Stdout
	plain bool
)

func init() {
	SetOutput(os.Stdout)
}

// SetOutput redirects printed lines. Styling is dropped unless dst is a
// terminal.
func SetOutput(dst io.Writer) {
	w = dst
	plain = !isTerminal(dst)
}

// Writer returns the current destination.
func Writer() io.Writer {
	return w
}

// IsTerminal reports whether output goes to a terminal.
func IsTerminal() bool {
	return !plain
}

func isTerminal(dst io.Writer) bool {
	f, ok := dst.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func render(style lipgloss.Style, s string) string {
	if plain {
		return s
	}
	return style.Render(s)
}

// Success prints a success message
func Success(format string, args ...any) {
	fmt.Fprint(w, render(successStyle, "✓ "))
	fmt.Fprintf(w, format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...any) {
	fmt.Fprint(w, render(warningStyle, "⚠ "))
	fmt.Fprintf(w, format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...any) {
	fmt.Fprint(w, render(errorStyle, "✗ "))
	fmt.Fprintf(w, format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...any) {
	fmt.Fprint(w, render(infoStyle, "ℹ "))
	fmt.Fprintf(w, format+"\n", args...)
}

// Muted prints a muted message
func Muted(format string, args ...any) {
	fmt.Fprintln(w, render(mutedStyle, fmt.Sprintf(format, args...)))
}

// Primary prints a primary message
func Primary(format string, args ...any) {
	fmt.Fprintln(w, render(primaryStyle, fmt.Sprintf(format, args...)))
}

// Section prints a section header
func Section(title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, render(primaryStyle, title))
	fmt.Fprintln(w, render(mutedStyle, strings.Repeat("═", len([]rune(title)))))
}

// StatusIcon returns a colored icon for a table or batch state.
func StatusIcon(status string) string {
	switch status {
	case "loaded", "present":
		return render(successStyle, "✓")
	case "skipped":
		return render(warningStyle, "○")
	case "missing", "failed":
		return render(errorStyle, "✗")
	case "running":
		return render(infoStyle, "◉")
	default:
		return render(mutedStyle, "•")
	}
}
