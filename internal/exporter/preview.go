package exporter

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"datacleaner/internal/dataprocessing"
)

// PreviewRows is the number of rows shown by RenderPreview
const PreviewRows = 5

// PreviewCSSClass is the class attribute of the preview table
const PreviewCSSClass = "dataframe"

// RenderPreview returns the first PreviewRows rows of t as an HTML table
// fragment. Cell text is HTML-escaped and missing cells render empty.
func RenderPreview(t *dataprocessing.Table) string {
	if t.NumCols() == 0 {
		return ""
	}

	head := t.Head(PreviewRows)

	tw := table.NewWriter()
	tw.Style().HTML = table.HTMLOptions{
		CSSClass:    PreviewCSSClass,
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, head.NumCols())
	for i, name := range head.Names() {
		header[i] = name
	}
	tw.AppendHeader(header)

	for i := 0; i < head.NumRows(); i++ {
		cells := head.FormatRow(i)
		row := make(table.Row, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		tw.AppendRow(row)
	}

	return tw.RenderHTML()
}
