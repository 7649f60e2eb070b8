package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"datacleaner/pkg/contracts/domain"
)

func TestTakeSnapshot(t *testing.T) {
	table := mustTable(t,
		numCol("a", 1, 1, 2, nil),
		textCol("b", "x", "x", nil, nil),
	)

	assert.Equal(t, domain.Snapshot{Rows: 4, Columns: 2, Missing: 3, Duplicates: 1}, TakeSnapshot(table))
	assert.Equal(t, "(4, 2)", TakeSnapshot(table).Shape())
}

func TestCountDuplicates_CountsEveryRepeat(t *testing.T) {
	table := mustTable(t, textCol("a", "x", "x", "x", "y"))

	assert.Equal(t, 2, CountDuplicates(table))
}

func TestTakeSnapshot_Empty(t *testing.T) {
	assert.Equal(t, domain.Snapshot{}, TakeSnapshot(&Table{}))
}
