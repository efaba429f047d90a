package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown renders a task description for the terminal, wrapped at width.
// With color disabled the ASCII style is used. On renderer failure the raw
// text is returned.
func Markdown(md string, width int) string {
	md = strings.TrimSpace(strings.ReplaceAll(md, "\r\n", "\n"))
	if md == "" {
		return ""
	}
	const minWidth = 20
	width = max(width, minWidth)

	style := styles.DarkStyleConfig
	if !colorEnabled {
		style = styles.ASCIIStyleConfig
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
