package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NoteRenderer renders note bodies as styled terminal markdown. It keeps one
// glamour renderer and rebuilds it only when the wrap width changes.
type NoteRenderer struct {
	style string
	width int
	r     *glamour.TermRenderer
}

// NewNoteRenderer returns a renderer using a glamour standard style such as
// "dark", "light" or "notty", or the path of a JSON style file.
func NewNoteRenderer(style string) *NoteRenderer {
	if style == "" {
		style = "dark"
	}
	return &NoteRenderer{style: style}
}

// Render renders body wrapped at width.
func (n *NoteRenderer) Render(body string, width int) (string, error) {
	if n.r == nil || n.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(n.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		n.r = r
		n.width = width
	}

	out, err := n.r.Render(body)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
