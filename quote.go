package payoff

import (
	"context"
	"errors"
)

// ErrNoPrice is returned by a Quoter when no price is available for a symbol.
var ErrNoPrice = errors.New("no price available")

// Quoter provides the latest spot price of an underlying.
type Quoter interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// FixedQuote is a Quoter that always answers the same price.
type FixedQuote float64

// LatestPrice implements Quoter.
func (q FixedQuote) LatestPrice(_ context.Context, _ string) (float64, error) {
	if !(q > 0) {
		return 0, ErrNoPrice
	}
	return float64(q), nil
}
