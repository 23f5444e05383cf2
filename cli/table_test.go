package cli

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/output"
)

func TestTableRender(t *testing.T) {
	tbl := newTable("date", "narration", "change").amountColumns(2)
	tbl.add("2020-01-02", "buy", "10 USD")
	tbl.add("2020-02-03", "käse 株", "-1.5 USD")

	var buf bytes.Buffer
	tbl.render(&buf, output.NewPlainStyles(&buf))

	assert.Equal(t, ""+
		"date        narration    change\n"+
		"2020-01-02  buy          10 USD\n"+
		"2020-02-03  käse 株    -1.5 USD\n",
		buf.String())
}
