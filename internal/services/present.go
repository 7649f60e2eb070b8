package services

import (
	apperrors "datacleaner/internal/errors"
	"datacleaner/pkg/contracts/domain"
)

// Outcome is the four-field shape shown to a person after a run:
// the report (or an error line), the heatmap image, the cleaned file path
// and the HTML preview. On failure only Report is set.
type Outcome struct {
	Report      string
	Heatmap     []byte
	OutputPath  string
	PreviewHTML string
}

// Present maps the result of Clean to an Outcome
func Present(result *domain.CleaningResult, err error) Outcome {
	if err != nil {
		return Outcome{Report: apperrors.UserMessage(err)}
	}
	if result == nil {
		return Outcome{Report: apperrors.UserMessage(apperrors.NewMissingInputError())}
	}
	return Outcome{
		Report:      result.Report,
		Heatmap:     result.HeatmapPNG,
		OutputPath:  result.OutputPath,
		PreviewHTML: result.PreviewHTML,
	}
}
