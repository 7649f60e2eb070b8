package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// NAValues are the cell texts read as missing, in addition to the empty string
var NAValues = []string{
	"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "null", "NULL", "None", "<NA>", "#N/A",
}

// gotaNA is the token gota recognises as missing in every series type
const gotaNA = "NaN"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads a delimited text file or an Excel workbook into a Table.
// The format follows the extension: .xlsx workbooks use their first sheet,
// .tsv files are tab separated and everything else is comma separated.
func ParseFile(filePath string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return parseWorkbook(filePath)
	case ".tsv", ".tab":
		return parseDelimitedFile(filePath, '\t')
	default:
		return parseDelimitedFile(filePath, ',')
	}
}

func parseDelimitedFile(filePath string, delimiter rune) (*Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseReader(f, delimiter)
}

// ParseReader reads delimited text with a header row
func ParseReader(r io.Reader, delimiter rune) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	// short rows are padded with missing cells in ParseRecords
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited data: %w", err)
	}
	return ParseRecords(records)
}

// parseWorkbook reads the first sheet of an Excel workbook
func parseWorkbook(filePath string) (*Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	// GetRows trims trailing empty cells; ParseRecords pads them back
	return ParseRecords(rows)
}

// ParseRecords builds a Table from string records whose first record is the
// header. Rows shorter than the header are padded with missing cells; longer
// rows are an error. Repeated header names are kept for the first column and
// suffixed ".1", ".2", ... for the repeats. Column kinds are detected from
// content: a column whose present cells all parse as numbers (surrounding
// spaces ignored) is numeric, anything else is categorical and keeps its raw text.
func ParseRecords(records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("input has no header row")
	}

	header := UniqueHeader(records[0])
	width := len(header)

	raw := make([][]string, len(records)-1)
	for i, record := range records[1:] {
		if len(record) > width {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", i+1, len(record), width)
		}
		row := make([]string, width)
		copy(row, record)
		raw[i] = row
	}

	if len(raw) == 0 {
		return emptyTable(header), nil
	}

	// gota sees positional keys so it never renames columns; the real
	// names are restored from header below
	keys := make([]string, width)
	for j := range keys {
		keys[j] = fmt.Sprintf("c%d", j)
	}
	normalized := make([][]string, len(raw)+1)
	normalized[0] = keys
	for i, row := range raw {
		values := make([]string, width)
		for j, value := range row {
			if isNA(value) {
				value = gotaNA
			}
			values[j] = strings.TrimSpace(value)
		}
		normalized[i+1] = values
	}

	df := dataframe.LoadRecords(normalized,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{gotaNA}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to load records: %w", df.Err)
	}

	types := df.Types()
	columns := make([]*Column, width)
	for j, name := range header {
		switch types[j] {
		case series.Int, series.Float:
			columns[j] = numericColumn(name, df.Col(keys[j]))
		default:
			columns[j] = categoricalColumn(name, raw, j)
		}
	}

	return NewTable(columns...)
}

// UniqueHeader returns names with repeats suffixed ".1", ".2", ... so that
// every name is distinct. The first occurrence keeps its name. Empty names
// become "Unnamed: <index>".
func UniqueHeader(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for j, name := range names {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		seen[name] = true
		out[j] = name
	}

	taken := make(map[string]bool, len(names))
	counts := make(map[string]int, len(names))
	for j, name := range out {
		if !taken[name] {
			taken[name] = true
			continue
		}
		candidate := name
		for taken[candidate] || seen[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		taken[candidate] = true
		out[j] = candidate
	}
	return out
}

func numericColumn(name string, s series.Series) *Column {
	cells := make([]Cell, s.Len())
	for i := range cells {
		elem := s.Elem(i)
		if elem.IsNA() {
			cells[i] = NullCell()
			continue
		}
		cells[i] = NumberCell(elem.Float())
	}
	return &Column{Name: name, Kind: KindNumeric, Cells: cells}
}

// categoricalColumn keeps the raw text so values such as "True" survive
// unchanged even when gota would coerce them
func categoricalColumn(name string, rows [][]string, j int) *Column {
	cells := make([]Cell, len(rows))
	for i, row := range rows {
		if isNA(row[j]) {
			cells[i] = NullCell()
			continue
		}
		cells[i] = TextCell(row[j])
	}
	return &Column{Name: name, Kind: KindCategorical, Cells: cells}
}

func emptyTable(header []string) *Table {
	columns := make([]*Column, len(header))
	for j, name := range header {
		columns[j] = &Column{Name: name, Kind: KindCategorical, Cells: []Cell{}}
	}
	return &Table{Columns: columns}
}

func isNA(value string) bool {
	if value == "" {
		return true
	}
	for _, na := range NAValues {
		if value == na {
			return true
		}
	}
	return false
}
