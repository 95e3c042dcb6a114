package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colour palette (ANSI 256).
const (
	ColorGreen  = "154"
	ColorGray   = "245"
	ColorRed    = "196"
	ColorYellow = "220"
)

// Styles holds the text styles used by Writer.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns coloured styles rendered for out.
func DefaultStyles(out io.Writer) Styles {
	r := newRenderer(out)
	// Colour was already decided by the caller; don't let the renderer
	// strip it again when out is a pipe.
	r.SetColorProfile(termenv.ANSI256)
	return Styles{
		Success: r.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorYellow)),
		Error:   r.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on colour preference.
func GetStyles(out io.Writer, noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles(out)
}
