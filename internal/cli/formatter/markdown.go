package formatter

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const wrapWidth = 80

// RenderMarkdown renders md for the terminal. With color off it uses the
// plain notty style. Rendering errors fall back to the raw text.
func RenderMarkdown(md string, color bool) string {
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrapWidth))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
