// Package output provides styling helpers for terminal output.
package output

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Styles renders styled strings for one writer. Styling degrades to plain
// text when the writer is not a color terminal.
type Styles struct {
	output *termenv.Output
}

func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// NewPlainStyles never emits escape sequences. Used for files and tests.
func NewPlainStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

func (s *Styles) fg(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success is green and bold.
func (s *Styles) Success(text string) string { return s.fg(text, "2").Bold().String() }

// Error is red and bold.
func (s *Styles) Error(text string) string { return s.fg(text, "1").Bold().String() }

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string { return s.fg(text, "3").Bold().String() }

func (s *Styles) FilePath(text string) string { return s.fg(text, "6").String() }

func (s *Styles) Account(text string) string { return s.fg(text, "3").String() }

func (s *Styles) Keyword(text string) string { return s.output.String(text).Bold().String() }

func (s *Styles) Dim(text string) string { return s.output.String(text).Faint().String() }

// Header renders a table header cell.
func (s *Styles) Header(text string) string {
	return s.output.String(text).Bold().Underline().String()
}

// Amount colors a rendered inventory by sign: red when every amount in it is
// negative, green when every amount is positive, magenta otherwise.
func (s *Styles) Amount(text string) string {
	if text == "" {
		return text
	}
	fields := strings.Split(text, ", ")
	negative := 0
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			negative++
		}
	}
	switch negative {
	case 0:
		return s.fg(text, "2").String()
	case len(fields):
		return s.fg(text, "1").String()
	default:
		return s.fg(text, "5").String()
	}
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
