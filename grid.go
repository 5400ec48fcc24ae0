package payoff

import "fmt"

const (
	DefaultGridPoints = 100
	DefaultRangePct   = 0.2  // grid spans spot ±20%
	ZoomStep          = 0.05 // each zoom moves both bounds by 5%
)

// Range is an interval of underlying prices.
type Range struct{ Min, Max float64 }

// AroundSpot returns the range spot*(1-pct) to spot*(1+pct).
func AroundSpot(spot, pct float64) Range {
	return Range{Min: spot * (1 - pct), Max: spot * (1 + pct)}
}

// Grid returns n evenly spaced prices from Min to Max, both included.
// Any n < 2, zero and negative included, returns the single point [Min].
func (r Range) Grid(n int) []float64 {
	if n < 2 {
		return []float64{r.Min}
	}
	grid := make([]float64, n)
	step := (r.Max - r.Min) / float64(n-1)
	for i := range grid {
		grid[i] = r.Min + float64(i)*step
	}
	// pin the last point against rounding drift
	grid[n-1] = r.Max
	return grid
}

// ZoomIn narrows the range by one step on both sides.
func (r Range) ZoomIn() Range {
	return Range{Min: r.Min * (1 + ZoomStep), Max: r.Max * (1 - ZoomStep)}
}

// ZoomOut widens the range by one step on both sides.
func (r Range) ZoomOut() Range {
	return Range{Min: r.Min * (1 - ZoomStep), Max: r.Max * (1 + ZoomStep)}
}

// Zoom applies 'steps' zoom-ins when positive, zoom-outs when negative.
func (r Range) Zoom(steps int) Range {
	for ; steps > 0; steps-- {
		r = r.ZoomIn()
	}
	for ; steps < 0; steps++ {
		r = r.ZoomOut()
	}
	return r
}

// Valid reports whether the range is a non empty interval of positive prices.
func (r Range) Valid() bool { return r.Min > 0 && r.Min < r.Max }

func (r Range) String() string { return fmt.Sprintf("[%.2f, %.2f]", r.Min, r.Max) }
