package payoff

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/etnz/payoff/date"
)

// ReportOptions tunes how a Report is built. Zero values fall back to the
// package defaults, except Rate where nil does: a zero rate is a valid request.
type ReportOptions struct {
	Rate       *float64
	Volatility float64
	RangePct   float64 // half width of the grid around spot, as a fraction
	Points     int     // number of grid points
	Zoom       int     // zoom steps applied to the range, >0 in, <0 out
	Workers    int     // evaluate grid points concurrently when > 1
	On         date.Date
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.Rate == nil {
		r := DefaultRate
		o.Rate = &r
	}
	if o.Volatility == 0 {
		o.Volatility = DefaultVolatility
	}
	if o.RangePct == 0 {
		o.RangePct = DefaultRangePct
	}
	if o.Points == 0 {
		o.Points = DefaultGridPoints
	}
	if o.On == (date.Date{}) {
		o.On = date.Today()
	}
	return o
}

// validate checks the options once the defaults are applied.
func (o ReportOptions) validate() error {
	if !(o.Volatility > 0) {
		return fmt.Errorf("invalid volatility %v: must be positive", o.Volatility)
	}
	if o.Points < 2 {
		return fmt.Errorf("invalid points %d: must be at least 2", o.Points)
	}
	if !(o.RangePct > 0 && o.RangePct < 1) {
		return fmt.Errorf("invalid range %v: must be between 0 and 1", o.RangePct)
	}
	if math.IsNaN(*o.Rate) || math.IsInf(*o.Rate, 0) {
		return fmt.Errorf("invalid rate %v", *o.Rate)
	}
	return nil
}

// Report is the outcome of one valuation request: everything a renderer needs
// to draw the three P&L curves.
type Report struct {
	Symbol    string
	Spot      float64
	On        date.Date
	Positions []Position
	Context   Context
	Range     Range
	Grid      []float64
	Curves    Curves
}

// NewReport values the positions of 'symbol' around its latest price.
//
// The request fails as a whole if any leg is invalid or if the quoter has no
// price; no pricing happens in either case.
func NewReport(ctx context.Context, q Quoter, symbol string, positions []Position, opts ReportOptions) (*Report, error) {
	opts = opts.withDefaults()

	if len(positions) == 0 {
		return nil, errors.New("no position selected")
	}
	if err := ValidatePositions(positions); err != nil {
		return nil, fmt.Errorf("invalid positions for %s: %w", symbol, err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	spot, err := q.LatestPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve real-time stock price for %s: %w", symbol, err)
	}
	if !(spot > 0) {
		return nil, fmt.Errorf("could not retrieve real-time stock price for %s: %w", symbol, ErrNoPrice)
	}

	rg := AroundSpot(spot, opts.RangePct).Zoom(opts.Zoom)
	if !rg.Valid() {
		return nil, fmt.Errorf("invalid price range %s after zooming %d steps", rg, opts.Zoom)
	}

	r := &Report{
		Symbol:    symbol,
		Spot:      spot,
		On:        opts.On,
		Positions: positions,
		Context:   NewContext(positions, *opts.Rate, opts.Volatility),
		Range:     rg,
		Grid:      rg.Grid(opts.Points),
	}
	if opts.Workers > 1 {
		r.Curves, err = EvaluateParallel(ctx, r.Grid, r.Positions, r.Context, opts.Workers)
	} else {
		r.Curves, err = Evaluate(r.Grid, r.Positions, r.Context)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %s portfolio: %w", symbol, err)
	}
	return r, nil
}

// Rezoom returns a copy of the report evaluated on a range zoomed by 'steps'.
// The curves are recomputed from scratch.
func (r *Report) Rezoom(steps int) (*Report, error) {
	rg := r.Range.Zoom(steps)
	if !rg.Valid() {
		return nil, fmt.Errorf("invalid price range %s after zooming %d steps", rg, steps)
	}
	z := *r
	z.Range = rg
	z.Grid = rg.Grid(len(r.Grid))
	curves, err := Evaluate(z.Grid, z.Positions, z.Context)
	if err != nil {
		return nil, err
	}
	z.Curves = curves
	return &z, nil
}

// ExpiryDate returns the calendar date of the longest option expiry.
// ok is false when there is no option leg.
func (r *Report) ExpiryDate() (d date.Date, ok bool) {
	if !HasOptions(r.Positions) {
		return date.Date{}, false
	}
	return r.On.Add(MaxDaysToExpiry(r.Positions)), true
}

// HalfwayDate returns the calendar date halfway to the longest expiry.
// ok is false when there is no option leg.
func (r *Report) HalfwayDate() (d date.Date, ok bool) {
	if !HasOptions(r.Positions) {
		return date.Date{}, false
	}
	// whole days: an odd expiry labels the day before the valued Expiry/2
	return r.On.Add(MaxDaysToExpiry(r.Positions) / 2), true
}

// Breakevens returns the prices where the expiry curve crosses zero, linearly
// interpolated between grid points.
func (r *Report) Breakevens() []float64 {
	return zeroCrossings(r.Grid, r.Curves.Expiry)
}

// Extremes returns the best and the worst expiry P&L over the grid.
func (r *Report) Extremes() (maxProfit, maxLoss float64) {
	if len(r.Curves.Expiry) == 0 {
		return 0, 0
	}
	maxProfit, maxLoss = math.Inf(-1), math.Inf(1)
	for _, v := range r.Curves.Expiry {
		maxProfit = math.Max(maxProfit, v)
		maxLoss = math.Min(maxLoss, v)
	}
	return maxProfit, maxLoss
}

func zeroCrossings(xs, ys []float64) []float64 {
	var out []float64
	for i := 0; i+1 < len(xs) && i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		switch {
		case y0 == 0:
			out = append(out, xs[i])
		case y0*y1 < 0:
			out = append(out, xs[i]+(xs[i+1]-xs[i])*(-y0)/(y1-y0))
		}
	}
	if n := len(ys); n > 0 && n <= len(xs) && ys[n-1] == 0 {
		out = append(out, xs[n-1])
	}
	return out
}
