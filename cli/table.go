package cli

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/redstreet/fava-investor/output"
)

// table renders rows as aligned columns. Widths are measured in terminal
// cells so account names and currencies with wide runes line up.
type table struct {
	header []string
	rows   [][]string
	// right marks columns aligned to the right.
	right map[int]bool
	// amounts marks columns colored by sign.
	amounts map[int]bool
}

func newTable(header ...string) *table {
	return &table{header: header, right: map[int]bool{}, amounts: map[int]bool{}}
}

// amountColumns marks columns holding inventories.
func (t *table) amountColumns(cols ...int) *table {
	for _, c := range cols {
		t.right[c] = true
		t.amounts[c] = true
	}
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	return widths
}

func (t *table) render(w io.Writer, styles *output.Styles) {
	widths := t.widths()
	var buf strings.Builder

	line := func(cells []string, style func(col int, text string) string) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				buf.WriteString("  ")
			}
			padded := runewidth.FillRight(cell, widths[i])
			if t.right[i] {
				padded = runewidth.FillLeft(cell, widths[i])
			}
			if i == len(cells)-1 && !t.right[i] {
				padded = cell
			}
			buf.WriteString(strings.Replace(padded, cell, style(i, cell), 1))
		}
		buf.WriteByte('\n')
	}

	line(t.header, func(_ int, text string) string { return styles.Header(text) })
	for _, row := range t.rows {
		line(row, func(col int, text string) string {
			if t.amounts[col] {
				return styles.Amount(text)
			}
			return text
		})
	}
	_, _ = io.WriteString(w, buf.String())
}
