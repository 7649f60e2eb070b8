package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "datacleaner/internal/errors"
	"datacleaner/pkg/contracts/domain"
)

func TestPresent(t *testing.T) {
	success := &domain.CleaningResult{
		Report:      "## report",
		HeatmapPNG:  []byte{0x89, 'P', 'N', 'G'},
		OutputPath:  "/tmp/run/cleaned_data.csv",
		PreviewHTML: "<table></table>",
	}

	tests := []struct {
		name   string
		result *domain.CleaningResult
		err    error
		want   Outcome
	}{
		{
			name:   "success",
			result: success,
			want: Outcome{
				Report:      "## report",
				Heatmap:     success.HeatmapPNG,
				OutputPath:  success.OutputPath,
				PreviewHTML: success.PreviewHTML,
			},
		},
		{
			name: "missing input",
			err:  apperrors.NewMissingInputError(),
			want: Outcome{Report: "❌ Please upload a CSV."},
		},
		{
			name: "parse failure carries cause",
			err:  apperrors.NewParsingError("failed to parse input", errors.New("record on line 2: wrong number of fields")),
			want: Outcome{Report: "⚠️ Error: failed to parse input: record on line 2: wrong number of fields"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: Outcome{Report: "⚠️ Error: boom"},
		},
		{
			name: "nothing at all",
			want: Outcome{Report: "❌ Please upload a CSV."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Present(tt.result, tt.err))
		})
	}
}
