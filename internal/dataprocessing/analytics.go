package dataprocessing

import "datacleaner/pkg/contracts/domain"

// CountMissing returns the number of missing cells in t
func CountMissing(t *Table) int {
	n := 0
	for _, col := range t.Columns {
		n += col.MissingCount()
	}
	return n
}

// CountDuplicates returns the number of rows that equal an earlier row
func CountDuplicates(t *Table) int {
	seen := make(map[string]struct{}, t.NumRows())
	dups := 0
	for i := 0; i < t.NumRows(); i++ {
		key := t.rowKey(i)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// TakeSnapshot summarises t
func TakeSnapshot(t *Table) domain.Snapshot {
	return domain.Snapshot{
		Rows:       t.NumRows(),
		Columns:    t.NumCols(),
		Missing:    CountMissing(t),
		Duplicates: CountDuplicates(t),
	}
}
