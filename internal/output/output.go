// Package output provides consistent CLI output formatting with colors.
//
// The Writer doubles as the diagnostic sink of the pre-flight gate: warnings
// go to the writer it wraps (stderr in the CLI), emphasized in yellow when the
// writer is a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out      io.Writer
	useColor bool
	styles   Styles
}

// Option configures a Writer.
type Option func(*Writer)

// WithColor forces colour on or off regardless of terminal detection.
func WithColor(enabled bool) Option {
	return func(w *Writer) {
		w.useColor = enabled
	}
}

// New creates a new output Writer. Colour is enabled when out is a terminal
// and NO_COLOR is unset, unless overridden with WithColor.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:      out,
		useColor: IsTTY(out) && !DetectNoColor(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.styles = GetStyles(out, !w.useColor)
	return w
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status(w.styles.Success.Render("✓"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Detail prints an indented secondary line, dimmed when colour is on.
func (w *Writer) Detail(msg string) {
	w.Status("", w.styles.Dim.Render(msg))
}

// Warning prints a warning message, emphasized when colour is on.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintf(w.out, "\n%s\n\n", w.styles.Warning.Render(msg))
}

// Warn implements the pre-flight diagnostic sink.
func (w *Writer) Warn(msg string) {
	w.Warning(msg)
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	_, _ = fmt.Fprint(w.out, w.styles.Error.Render(msg))
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		_, _ = fmt.Fprintln(w.out)
	}
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// newRenderer binds lipgloss to out so colour profile detection follows the
// actual destination rather than stdout.
func newRenderer(out io.Writer) *lipgloss.Renderer {
	if out == nil {
		return lipgloss.DefaultRenderer()
	}
	return lipgloss.NewRenderer(out)
}
