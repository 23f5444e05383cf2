package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/performance"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
// Sources are looked up by the filename in the error position; files not
// registered with AddSource are read from disk on demand.
type ErrorRenderer struct {
	sources map[string][]byte
}

func NewErrorRenderer() *ErrorRenderer {
	return &ErrorRenderer{sources: make(map[string][]byte)}
}

// AddSource registers the contents of filename, for sources not on disk.
func (r *ErrorRenderer) AddSource(filename string, source []byte) *ErrorRenderer {
	r.sources[filename] = source
	return r
}

func (r *ErrorRenderer) source(filename string) []byte {
	if src, ok := r.sources[filename]; ok {
		return src
	}
	if filename == "" {
		return nil
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		src = nil
	}
	r.sources[filename] = src
	return src
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var valuation *inventory.ValuationError
	if errors.As(err, &valuation) {
		return errorStyle.Render(err.Error()) + "\n\n   " +
			errContextStyle.Render("add a price directive for "+valuation.Currency+" in "+valuation.Quote+" on or before "+valuation.Date.Format("2006-01-02"))
	}

	var reconciliation *performance.ReconciliationError
	if errors.As(err, &reconciliation) && reconciliation.Transaction != nil && reconciliation.Transaction.Source != nil {
		return r.renderDirective(reconciliation.Transaction.Source.Pos, err.Error())
	}

	if e, ok := err.(interface {
		GetPosition() ast.Position
		GetDirective() ast.Directive
		Error() string
	}); ok {
		if e.GetDirective() != nil {
			return r.renderDirective(e.GetPosition(), e.Error())
		}
		return r.renderWithCaret(e.GetPosition(), e.Error())
	}

	return err.Error()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = r.Render(err)
	}
	return strings.Join(parts, "\n\n")
}

// renderWithCaret shows the lines around pos and points at its column.
func (r *ErrorRenderer) renderWithCaret(pos ast.Position, message string) string {
	lines := r.lines(pos.Filename)
	if lines == nil || pos.Line < 1 {
		return message
	}

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	start := max(pos.Line-3, 0)
	end := min(pos.Line+1, len(lines)-1)
	for i := start; i <= end; i++ {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(lines[i]))
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// renderDirective shows the directive starting at pos: its first line and
// the indented lines below it.
func (r *ErrorRenderer) renderDirective(pos ast.Position, message string) string {
	lines := r.lines(pos.Filename)
	if lines == nil || pos.Line < 1 || pos.Line > len(lines) {
		return message
	}

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")
	for i := pos.Line - 1; i < len(lines); i++ {
		line := lines[i]
		if i > pos.Line-1 && (strings.TrimSpace(line) == "" || (line[0] != ' ' && line[0] != '\t')) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(strings.TrimRight(line, " \t\r")))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (r *ErrorRenderer) lines(filename string) []string {
	src := r.source(filename)
	if src == nil {
		return nil
	}
	return strings.Split(string(src), "\n")
}
