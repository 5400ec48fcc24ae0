package eodhd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/payoff"
)

var _ payoff.Quoter = (*Client)(nil)

// Ticker returns the EODHD ticker of a symbol: bare symbols are assumed to be
// US listings ("AAPL" becomes "AAPL.US"), qualified ones are kept as is.
func Ticker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".US"
}

// pricePaths are tried in order; the real-time endpoint reports "NA" for close
// outside trading hours.
var pricePaths = []string{"$.close", "$.previousClose"}

// LatestPrice returns the latest traded price of symbol.
//
// It returns an error wrapping payoff.ErrNoPrice when the payload has no usable
// price.
func (c *Client) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	ticker := Ticker(symbol)
	if ticker == "" {
		return 0, fmt.Errorf("empty symbol: %w", payoff.ErrNoPrice)
	}

	var jobj any
	if err := c.get(ctx, "/real-time/"+ticker, nil, &jobj); err != nil {
		return 0, fmt.Errorf("cannot get real-time quote for %s: %w", ticker, err)
	}

	for _, path := range pricePaths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			// unknown key
			continue
		}
		// jsonpath may return a list of one answer
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		if price, ok := asPrice(jval); ok {
			c.logger.Debug().Str("ticker", ticker).Str("path", path).Float64("price", price).Msg("latest price")
			return price, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", ticker, payoff.ErrNoPrice)
}

// asPrice converts a JSON value to a positive price.
func asPrice(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if !(f > 0) {
		return 0, false
	}
	return f, true
}
