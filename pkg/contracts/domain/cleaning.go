package domain

import (
	"fmt"
	"time"
)

// Snapshot is an immutable record of table statistics taken at one point of the pipeline
type Snapshot struct {
	Rows       int `json:"rows"`
	Columns    int `json:"columns"`
	Missing    int `json:"missing"`
	Duplicates int `json:"duplicates"`
}

// Shape formats the row/column counts as "(rows, columns)"
func (s Snapshot) Shape() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Columns)
}

// Stage identifies a step of the cleaning pipeline
type Stage string

const (
	StageLoad        Stage = "load"
	StageDeduplicate Stage = "deduplicate"
	StageImpute      Stage = "impute"
	StageTrim        Stage = "trim_outliers"
	StageRender      Stage = "render"
	StagePersist     Stage = "persist"
)

// RemovalCounts holds the number of rows each row-dropping stage removed
type RemovalCounts struct {
	Duplicates int `json:"duplicates"`
	Outliers   int `json:"outliers"`
}

// Total returns the number of rows removed by all stages
func (r RemovalCounts) Total() int {
	return r.Duplicates + r.Outliers
}

// CleaningResult is everything a single cleaning run hands back to its caller
type CleaningResult struct {
	RunID             string        `json:"run_id"`
	InputPath         string        `json:"input_path"`
	Report            string        `json:"report"`
	HeatmapPNG        []byte        `json:"-"`
	OutputPath        string        `json:"output_path"`
	HeatmapPath       string        `json:"heatmap_path"`
	PreviewHTML       string        `json:"preview_html"`
	Before            Snapshot      `json:"before"`
	After             Snapshot      `json:"after"`
	Removed           RemovalCounts `json:"removed"`
	ImputedCells      int           `json:"imputed_cells"`
	DegenerateColumns []string      `json:"degenerate_columns,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration"`
}
