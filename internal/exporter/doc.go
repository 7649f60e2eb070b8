// Package exporter turns a cleaned table and its statistics into the
// artifacts handed back to the user.
//
// CSVWriter writes the cleaned table as CSV (header row, no index column).
// RenderReport formats the before/after statistics as markdown.
// RenderPreview renders the first rows as an HTML table fragment.
// RenderMissingHeatmap draws the missing-value grid of the input as a PNG.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(logger)
//	err := writer.WriteTable(paths.OutputPath(runID), cleaned)
//
//	png, err := exporter.RenderMissingHeatmap(original.MissingMatrix(), original.Names())
package exporter
