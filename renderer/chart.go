package renderer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/etnz/payoff"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartWidth  = 700
	ChartHeight = 500
)

var (
	colorToday   = drawing.ColorBlack
	colorHalfway = drawing.ColorRed
	colorExpiry  = drawing.ColorGreen
	colorSpot    = drawing.ColorFromHex("ffa500") // orange
	colorZero    = drawing.ColorFromHex("9ca3af") // gray-400
)

// RenderChart renders the three P&L curves of the report as a PNG line chart,
// with a dashed marker at the spot price and the zero line.
func RenderChart(r *payoff.Report) ([]byte, error) {
	if len(r.Grid) < 2 {
		return nil, fmt.Errorf("need at least 2 grid points, got %d", len(r.Grid))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, curve := range [][]float64{r.Curves.Today, r.Curves.Halfway, r.Curves.Expiry} {
		if len(curve) != len(r.Grid) {
			return nil, fmt.Errorf("curve has %d points, want %d", len(curve), len(r.Grid))
		}
		for _, v := range curve {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if hi-lo < 1 {
		// flat P&L, go-chart rejects an empty range
		lo, hi = lo-1, hi+1
	}

	first, last := r.Grid[0], r.Grid[len(r.Grid)-1]

	graph := chart.Chart{
		Title:  Title(r.Symbol),
		Width:  ChartWidth,
		Height: ChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Stock Price",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "Profit / Loss",
			Range: &chart.ContinuousRange{
				Min: lo,
				Max: hi,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Today",
				Style:   chart.Style{StrokeColor: colorToday, StrokeWidth: 2},
				XValues: r.Grid,
				YValues: r.Curves.Today,
			},
			chart.ContinuousSeries{
				Name:    HalfwayLabel(r),
				Style:   chart.Style{StrokeColor: colorHalfway, StrokeWidth: 2},
				XValues: r.Grid,
				YValues: r.Curves.Halfway,
			},
			chart.ContinuousSeries{
				Name:    ExpiryLabel(r),
				Style:   chart.Style{StrokeColor: colorExpiry, StrokeWidth: 2},
				XValues: r.Grid,
				YValues: r.Curves.Expiry,
			},
			chart.ContinuousSeries{
				Name: SpotLabel(r.Spot),
				Style: chart.Style{
					StrokeColor:     colorSpot,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: []float64{r.Spot, r.Spot},
				YValues: []float64{lo, hi},
			},
			chart.ContinuousSeries{
				Name:    "Zero",
				Style:   chart.Style{StrokeColor: colorZero, StrokeWidth: 1},
				XValues: []float64{first, last},
				YValues: []float64{0, 0},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
