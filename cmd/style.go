package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette holds the terminal styles shared by the banner and the demo.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
	event lipgloss.Style
}

func newPalette(w io.Writer, noColor bool) palette {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		warn:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8A317")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#7B8794")),
		event: r.NewStyle().Foreground(lipgloss.Color("#3C91E6")),
	}
}
