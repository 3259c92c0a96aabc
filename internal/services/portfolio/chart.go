package portfolio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/models"
)

// RenderSectorChart renders chart slices as a PNG pie chart.
// Returns raw PNG bytes.
func RenderSectorChart(slices []models.ChartSlice) ([]byte, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("sector chart: %w", models.ErrNotFound)
	}

	values := make([]chart.Value, len(slices))
	for i, sl := range slices {
		values[i] = chart.Value{
			Label: sl.Label,
			Value: sl.Value,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(sl.Color, "#")),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		}
	}

	graph := chart.PieChart{
		Title:  "Sector Allocation",
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) SectorChart(ctx context.Context) ([]byte, error) {
	analysis, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return RenderSectorChart(analysis.Chart)
}
