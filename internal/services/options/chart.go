package options

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/models"
)

// PayoffChart renders the profit curve as a PNG line chart with a break-even marker.
func (s *Service) PayoffChart(analysis *models.OptionAnalysis) ([]byte, error) {
	if analysis == nil || len(analysis.Curve) < 2 {
		return nil, fmt.Errorf("need at least 2 curve points")
	}

	xs := make([]float64, len(analysis.Curve))
	ys := make([]float64, len(analysis.Curve))
	for i, p := range analysis.Curve {
		xs[i] = p.Price
		ys[i] = p.Profit
	}

	profitSeries := chart.ContinuousSeries{
		Name: "Profit/Loss",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xs,
		YValues: ys,
	}

	zeroSeries := chart.ContinuousSeries{
		Name: "Break-even",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: []float64{xs[0], xs[len(xs)-1]},
		YValues: []float64{0, 0},
	}

	title := "Call Option P/L"
	if analysis.Position.Type == models.OptionPut {
		title = "Put Option P/L"
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Stock Price",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "Profit/Loss",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{profitSeries, zeroSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
