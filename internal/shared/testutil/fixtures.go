package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleCSV is a small table with one duplicate row, missing cells in both
// column kinds and no outliers.
const SampleCSV = `id,age,city
1,30,Basra
2,,Baghdad
3,40,
1,30,Basra
4,35,Baghdad
`

// WriteFixture writes content into dir/name and returns the full path
func WriteFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// CSVLines builds CSV text from rows joined with commas
func CSVLines(rows ...[]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
