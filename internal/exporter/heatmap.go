package exporter

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	plottext "gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// HeatmapTitle is drawn above every missing-value heatmap
const HeatmapTitle = "Missing Values Heatmap (Before Cleaning)"

const (
	heatmapWidth  = 6 * vg.Inch
	heatmapHeight = 4 * vg.Inch
)

// Two-colour palette taken from the ends of the viridis colour map
var (
	presentColor = color.RGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff}
	missingColor = color.RGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}
)

type binaryPalette struct{}

func (binaryPalette) Colors() []color.Color {
	return []color.Color{presentColor, missingColor}
}

// missingGrid adapts a rows×columns missing matrix to plotter.GridXYZ.
// Column c sits at x = c and row r at y = r.
type missingGrid struct {
	matrix [][]bool
	cols   int
}

func (g missingGrid) Dims() (c, r int) { return g.cols, len(g.matrix) }

func (g missingGrid) Z(c, r int) float64 {
	if g.matrix[r][c] {
		return 1
	}
	return 0
}

func (g missingGrid) X(c int) float64 { return float64(c) }
func (g missingGrid) Y(r int) float64 { return float64(r) }

// RenderMissingHeatmap draws one cell per (row, column) of matrix, coloured
// by whether the value is missing, with column names as x ticks and row 0 at
// the top. It returns PNG bytes.
func RenderMissingHeatmap(matrix [][]bool, columns []string) ([]byte, error) {
	for i, row := range matrix {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}

	p := plot.New()
	p.Title.Text = HeatmapTitle
	p.HideY()
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	if len(matrix) > 0 && len(columns) > 0 {
		hm := plotter.NewHeatMap(missingGrid{matrix: matrix, cols: len(columns)}, binaryPalette{})
		// Fixed range keeps an all-present or all-missing grid on the right colour
		hm.Min, hm.Max = 0, 1
		p.Add(hm)
	} else {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
	}

	ticks := make([]plot.Tick, len(columns))
	for i, name := range columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	if len(columns) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = plottext.XRight
		p.X.Tick.Label.YAlign = plottext.YCenter
	}

	wt, err := p.WriterTo(heatmapWidth, heatmapHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png canvas: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
