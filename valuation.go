package payoff

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ContractMultiplier is the number of shares delivered by one option contract.
const ContractMultiplier = 100

// DaysPerYear converts days to expiry into years.
const DaysPerYear = 365.0

const (
	DefaultRate       = 0.0525 // annualized risk-free rate
	DefaultVolatility = 0.2    // annualized volatility applied to every option leg
)

// Context holds the scalar parameters shared by all legs of one valuation.
//
// Times are in years.
type Context struct {
	Rate       float64
	Volatility float64
	Now        float64
	Halfway    float64
	Expiry     float64
}

// NewContext derives the three horizons from the option legs.
//
// Expiry is the longest time to expiry among option legs, Halfway is half of
// it and Now is a one day floor. A portfolio without option legs has Expiry
// and Halfway set to zero.
func NewContext(positions []Position, rate, vol float64) Context {
	expiry := float64(MaxDaysToExpiry(positions)) / DaysPerYear
	return Context{
		Rate:       rate,
		Volatility: vol,
		Now:        1 / DaysPerYear,
		Halfway:    expiry / 2,
		Expiry:     expiry,
	}
}

// MaxDaysToExpiry returns the longest days to expiry among option legs, or 0 if
// there is none.
func MaxDaysToExpiry(positions []Position) int {
	days := 0
	for _, p := range positions {
		if p.Kind == Option && p.DaysToExpiry > days {
			days = p.DaysToExpiry
		}
	}
	return days
}

// HasOptions reports whether at least one leg is an option.
func HasOptions(positions []Position) bool {
	for _, p := range positions {
		if p.Kind == Option {
			return true
		}
	}
	return false
}

// Curves are the aggregated P&L of a portfolio, aligned index for index with
// the price grid they were evaluated on.
type Curves struct {
	Today   []float64
	Halfway []float64
	Expiry  []float64
}

// Evaluate computes the portfolio P&L at every grid price for the three
// horizons of ctx.
//
// A stock leg uses the absolute entry price: a debit (negative entry) earns
// (S-entry)*qty, a credit earns (entry-S)*qty, identically at every horizon.
// An option leg uses the signed entry price: (value*100 - entry*100)*qty, where
// value is the Black-Scholes price today and halfway, and the intrinsic value
// at expiry.
//
// An error on any leg fails the whole evaluation.
func Evaluate(grid []float64, positions []Position, ctx Context) (Curves, error) {
	c := Curves{
		Today:   make([]float64, len(grid)),
		Halfway: make([]float64, len(grid)),
		Expiry:  make([]float64, len(grid)),
	}
	for i, s := range grid {
		if err := c.accumulate(i, s, positions, ctx); err != nil {
			return Curves{}, err
		}
	}
	return c, nil
}

// EvaluateParallel is like Evaluate but spreads grid points over 'workers'
// goroutines (GOMAXPROCS when workers <= 0). Grid points are independent so
// the result is identical to Evaluate.
func EvaluateParallel(ctx context.Context, grid []float64, positions []Position, vctx Context, workers int) (Curves, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	c := Curves{
		Today:   make([]float64, len(grid)),
		Halfway: make([]float64, len(grid)),
		Expiry:  make([]float64, len(grid)),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range grid {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return c.accumulate(i, s, positions, vctx)
		})
	}
	if err := g.Wait(); err != nil {
		return Curves{}, err
	}
	return c, nil
}

// accumulate adds every leg's contribution at grid index i (price s).
func (c *Curves) accumulate(i int, s float64, positions []Position, ctx Context) error {
	for _, p := range positions {
		qty := float64(p.Quantity)

		if p.Kind == Stock {
			entry := math.Abs(p.EntryPrice)
			var pl float64
			if p.EntryPrice < 0 {
				pl = (s - entry) * qty
			} else {
				pl = (entry - s) * qty
			}
			c.Today[i] += pl
			c.Halfway[i] += pl
			c.Expiry[i] += pl
			continue
		}

		today, err := Price(s, p.Strike, ctx.Now, ctx.Rate, ctx.Volatility, p.OptionType)
		if err != nil {
			return err
		}
		halfway, err := Price(s, p.Strike, ctx.Halfway, ctx.Rate, ctx.Volatility, p.OptionType)
		if err != nil {
			return err
		}
		var expiry float64
		switch p.OptionType {
		case Call:
			expiry = math.Max(s-p.Strike, 0)
		case Put:
			expiry = math.Max(p.Strike-s, 0)
		}

		entry := p.EntryPrice * ContractMultiplier
		c.Today[i] += (today*ContractMultiplier - entry) * qty
		c.Halfway[i] += (halfway*ContractMultiplier - entry) * qty
		c.Expiry[i] += (expiry*ContractMultiplier - entry) * qty
	}
	return nil
}
