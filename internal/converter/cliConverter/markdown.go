package cliConverter

import (
	"github.com/charmbracelet/glamour"
)

const defaultWordWrap = 80

// MarkdownRenderer renders assistant replies for the terminal.
type MarkdownRenderer struct {
	r *glamour.TermRenderer
}

// NewMarkdownRenderer picks a style from the terminal when style is empty.
func NewMarkdownRenderer(style string) (*MarkdownRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(defaultWordWrap))
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{r: r}, nil
}

// Render falls back to the raw text when rendering fails.
func (m *MarkdownRenderer) Render(text string) string {
	out, err := m.r.Render(text)
	if err != nil {
		return text
	}
	return out
}
