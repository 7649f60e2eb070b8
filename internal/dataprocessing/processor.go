package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OutlierSigma is the half-width, in sample standard deviations, of the band
// of values kept by TrimOutliers
const OutlierSigma = 3.0

// Deduplicate removes every row that equals an earlier row in all columns.
// The first occurrence is kept and order is preserved. It returns the number
// of rows removed.
func Deduplicate(t *Table) int {
	seen := make(map[string]struct{}, t.NumRows())
	return t.KeepRows(func(row int) bool {
		key := t.rowKey(row)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// ImputeNumeric fills the missing cells of every numeric column with the
// arithmetic mean of its present cells. Columns without any present cell are
// left untouched. It returns the number of cells filled.
func ImputeNumeric(t *Table) int {
	filled := 0
	for _, col := range t.Columns {
		if col.Kind != KindNumeric {
			continue
		}
		values := presentValues(col)
		if len(values) == 0 || len(values) == len(col.Cells) {
			continue
		}
		mean := stat.Mean(values, nil)
		for i := range col.Cells {
			if !col.Cells[i].Valid {
				col.Cells[i] = NumberCell(mean)
				filled++
			}
		}
	}
	return filled
}

// ImputeResult describes what ImputeCategorical changed
type ImputeResult struct {
	Filled int
	// Degenerate lists columns that still have missing cells but no present
	// value to take a mode from. They are left missing.
	Degenerate []string
}

// ImputeCategorical fills every column that still contains missing cells with
// its most frequent present value. Ties go to the smallest value: numeric
// order for numeric columns, byte order for text.
func ImputeCategorical(t *Table) ImputeResult {
	var result ImputeResult
	for _, col := range t.Columns {
		if col.MissingCount() == 0 {
			continue
		}
		mode, ok := columnMode(col)
		if !ok {
			result.Degenerate = append(result.Degenerate, col.Name)
			continue
		}
		for i := range col.Cells {
			if !col.Cells[i].Valid {
				col.Cells[i] = mode
				result.Filled++
			}
		}
	}
	return result
}

// columnMode returns the most frequent present cell of col
func columnMode(col *Column) (Cell, bool) {
	if col.Kind == KindNumeric {
		counts := make(map[float64]int)
		for _, cell := range col.Cells {
			if cell.Valid {
				counts[cell.Num]++
			}
		}
		if len(counts) == 0 {
			return Cell{}, false
		}
		values := make([]float64, 0, len(counts))
		for v := range counts {
			values = append(values, v)
		}
		sort.Float64s(values)
		best := values[0]
		for _, v := range values[1:] {
			if counts[v] > counts[best] {
				best = v
			}
		}
		return NumberCell(best), true
	}

	counts := make(map[string]int)
	for _, cell := range col.Cells {
		if cell.Valid {
			counts[cell.Text]++
		}
	}
	if len(counts) == 0 {
		return Cell{}, false
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return TextCell(best), true
}

// TrimOutliers walks the numeric columns in declared order. For each one it
// computes the mean and sample standard deviation of the current rows and
// keeps only rows whose value lies within OutlierSigma deviations of the
// mean; rows missing a value in that column are dropped too. Each column is
// evaluated on the table left by the previous one. Columns with fewer than
// two present values or a non-positive deviation are skipped.
// It returns the number of rows removed.
func TrimOutliers(t *Table) int {
	removed := 0
	for _, col := range t.Columns {
		if col.Kind != KindNumeric {
			continue
		}
		values := presentValues(col)
		if len(values) < 2 {
			continue
		}
		mean, std := stat.MeanStdDev(values, nil)
		if !(std > 0) || math.IsInf(std, 0) {
			continue
		}

		lower, upper := mean-OutlierSigma*std, mean+OutlierSigma*std
		cells := col.Cells
		removed += t.KeepRows(func(row int) bool {
			cell := cells[row]
			return cell.Valid && cell.Num >= lower && cell.Num <= upper
		})
	}
	return removed
}

func presentValues(col *Column) []float64 {
	values := make([]float64, 0, len(col.Cells))
	for _, cell := range col.Cells {
		if cell.Valid {
			values = append(values, cell.Num)
		}
	}
	return values
}
