package presenter

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles renders text fragments, styled on terminals and plain otherwise
type Styles struct {
	plain bool

	title    lipgloss.Style
	tech     lipgloss.Style
	category lipgloss.Style
	field    lipgloss.Style
	muted    lipgloss.Style
	risk     lipgloss.Style
	count    lipgloss.Style
}

// NewStyles returns styled output when w is a terminal
func NewStyles(w io.Writer) *Styles {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return newStyled(lipgloss.NewRenderer(w))
	}
	return PlainStyles()
}

// PlainStyles returns styles that leave text untouched
func PlainStyles() *Styles {
	return &Styles{plain: true}
}

func newStyled(r *lipgloss.Renderer) *Styles {
	return &Styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		tech:     r.NewStyle().Bold(true),
		category: r.NewStyle().Foreground(lipgloss.Color("245")),
		field:    r.NewStyle().Foreground(lipgloss.Color("99")),
		muted:    r.NewStyle().Faint(true),
		risk:     r.NewStyle().Foreground(lipgloss.Color("203")),
		count:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
	}
}

// Plain reports whether styling is disabled
func (s *Styles) Plain() bool {
	return s.plain
}

func (s *Styles) render(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

func (s *Styles) Title(text string) string    { return s.render(s.title, text) }
func (s *Styles) Tech(text string) string     { return s.render(s.tech, text) }
func (s *Styles) Category(text string) string { return s.render(s.category, text) }
func (s *Styles) Field(text string) string    { return s.render(s.field, text) }
func (s *Styles) Muted(text string) string    { return s.render(s.muted, text) }
func (s *Styles) Risk(text string) string     { return s.render(s.risk, text) }
func (s *Styles) Count(text string) string    { return s.render(s.count, text) }
