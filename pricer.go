package payoff

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidOptionType is returned when an option type is neither a call nor a put.
var ErrInvalidOptionType = errors.New("invalid option type, choose 'call' or 'put'")

// OptionType is the right carried by an option contract.
type OptionType int

const (
	Call OptionType = iota + 1
	Put
)

// ParseOptionType parses "call", "put", "C" or "P" (case insensitive).
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
}

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

// Intrinsic returns the value of the option if exercised immediately.
func Intrinsic(spot, strike float64, typ OptionType) (float64, error) {
	switch typ {
	case Call:
		return math.Max(spot-strike, 0), nil
	case Put:
		return math.Max(strike-spot, 0), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidOptionType, typ)
}

// Price computes the Black-Scholes value of a European option.
//
// t is the time to expiry in years and rate and vol are annualized. When t is
// zero or negative the option is at its terminal state and Price returns the
// intrinsic value.
func Price(spot, strike, t, rate, vol float64, typ OptionType) (float64, error) {
	if t <= 0 {
		return Intrinsic(spot, strike, typ)
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT
	discount := strike * math.Exp(-rate*t)

	switch typ {
	case Call:
		return spot*normCDF(d1) - discount*normCDF(d2), nil
	case Put:
		return discount*normCDF(-d2) - spot*normCDF(-d1), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidOptionType, typ)
}

// normCDF is the cumulative standard normal distribution.
func normCDF(x float64) float64 { return 0.5 * math.Erfc(-x/math.Sqrt2) }
