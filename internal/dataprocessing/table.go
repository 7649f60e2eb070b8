package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColumnKind distinguishes numeric from categorical columns
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindCategorical
)

// String returns the kind name
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// Cell is one value of a column. Numeric columns use Num, categorical columns
// use Text. A cell with Valid == false is missing.
type Cell struct {
	Num   float64
	Text  string
	Valid bool
}

// NumberCell returns a present numeric cell
func NumberCell(v float64) Cell {
	return Cell{Num: v, Valid: true}
}

// TextCell returns a present categorical cell
func TextCell(s string) Cell {
	return Cell{Text: s, Valid: true}
}

// NullCell returns a missing cell
func NullCell() Cell {
	return Cell{}
}

// Column is a named, typed sequence of cells
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Cell
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Valid {
			n++
		}
	}
	return n
}

// Format renders cell i for output: shortest round-trip form for numbers,
// the text itself for categorical values, "" when missing.
func (c *Column) Format(i int) string {
	cell := c.Cells[i]
	if !cell.Valid {
		return ""
	}
	if c.Kind == KindNumeric {
		return formatNumber(cell.Num)
	}
	return cell.Text
}

func formatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table is an ordered set of equally long columns
type Table struct {
	Columns []*Column
}

// NewTable builds a table and checks that all columns have the same length
func NewTable(columns ...*Column) (*Table, error) {
	for i, col := range columns {
		if len(col.Cells) != len(columns[0].Cells) {
			return nil, fmt.Errorf("column %d (%s) has %d cells, expected %d",
				i, col.Name, len(col.Cells), len(columns[0].Cells))
		}
	}
	return &Table{Columns: columns}, nil
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Names returns the column names in declared order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the column with the given name
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	columns := make([]*Column, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		columns[i] = &Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	return &Table{Columns: columns}
}

// Head returns a copy holding the first n rows
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	if n < 0 {
		n = 0
	}
	head := t.Clone()
	for _, col := range head.Columns {
		col.Cells = col.Cells[:n]
	}
	return head
}

// KeepRows retains the rows for which keep returns true, preserving order,
// and returns the number of rows removed
func (t *Table) KeepRows(keep func(row int) bool) int {
	rows := t.NumRows()
	kept := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}
	if len(kept) == rows {
		return 0
	}

	for _, col := range t.Columns {
		cells := make([]Cell, len(kept))
		for j, i := range kept {
			cells[j] = col.Cells[i]
		}
		col.Cells = cells
	}
	return rows - len(kept)
}

// Records renders the table as string records, header first
func (t *Table) Records() [][]string {
	records := make([][]string, 0, t.NumRows()+1)
	records = append(records, t.Names())
	for i := 0; i < t.NumRows(); i++ {
		records = append(records, t.FormatRow(i))
	}
	return records
}

// FormatRow renders row i as strings
func (t *Table) FormatRow(i int) []string {
	row := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = col.Format(i)
	}
	return row
}

// MissingMatrix returns a rows×columns grid, true where the cell is missing
func (t *Table) MissingMatrix() [][]bool {
	matrix := make([][]bool, t.NumRows())
	for i := range matrix {
		matrix[i] = make([]bool, len(t.Columns))
		for j, col := range t.Columns {
			matrix[i][j] = !col.Cells[i].Valid
		}
	}
	return matrix
}

// rowKey encodes row i so that two rows share a key exactly when every cell
// is equal. Numbers compare by value and missing equals missing.
func (t *Table) rowKey(i int) string {
	var b strings.Builder
	for _, col := range t.Columns {
		cell := col.Cells[i]
		switch {
		case !cell.Valid:
			b.WriteString("\x00N")
		case col.Kind == KindNumeric:
			v := cell.Num
			if v == 0 {
				v = 0 // fold -0 into 0
			}
			b.WriteString("\x00n")
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		default:
			b.WriteString("\x00s")
			b.WriteString(strconv.Itoa(len(cell.Text)))
			b.WriteByte(':')
			b.WriteString(cell.Text)
		}
	}
	return b.String()
}
