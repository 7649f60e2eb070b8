package exporter

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"datacleaner/pkg/contracts/domain"
)

// ReportTitle heads every cleaning report
const ReportTitle = "## 🧹 Data Cleaning Report"

// ReportData is what RenderReport summarises
type ReportData struct {
	Before            domain.Snapshot
	After             domain.Snapshot
	Removed           domain.RemovalCounts
	ImputedCells      int
	DegenerateColumns []string
}

// RenderReport formats the before/after statistics of a run as markdown
func RenderReport(data ReportData) string {
	t := table.NewWriter()
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Metric", "Before Cleaning", "After Cleaning"})
	t.AppendRows([]table.Row{
		{"Shape", data.Before.Shape(), data.After.Shape()},
		{"Missing values", data.Before.Missing, data.After.Missing},
		{"Duplicates", data.Before.Duplicates, data.After.Duplicates},
	})

	var b strings.Builder
	b.WriteString(ReportTitle)
	b.WriteString("\n\n")
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n\n**Changes**\n")
	fmt.Fprintf(&b, "- Duplicate rows removed: %d\n", data.Removed.Duplicates)
	fmt.Fprintf(&b, "- Outlier rows removed: %d\n", data.Removed.Outliers)
	fmt.Fprintf(&b, "- Missing cells imputed: %d\n", data.ImputedCells)

	if len(data.DegenerateColumns) > 0 {
		fmt.Fprintf(&b, "\n> ⚠️ Columns with no values were left empty: %s\n",
			strings.Join(data.DegenerateColumns, ", "))
	}
	return b.String()
}
