package payoff

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind tells a stock leg from an option leg.
type Kind int

const (
	Stock Kind = iota
	Option
)

func (k Kind) String() string {
	switch k {
	case Stock:
		return "stock"
	case Option:
		return "option"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position is one leg of a portfolio.
//
// Quantity is signed: positive is long, negative is short.
//
// EntryPrice keeps the sign of the broker export: a negative value is a debit
// (the amount paid), a positive value is a credit. Stock and option legs read
// that sign differently, see [Evaluate].
type Position struct {
	Kind   Kind
	Symbol string

	// Option legs only.
	OptionType   OptionType
	Strike       float64
	DaysToExpiry int

	Quantity   int
	EntryPrice float64
}

// NewStock returns a stock leg.
func NewStock(symbol string, quantity int, entry float64) Position {
	return Position{Kind: Stock, Symbol: symbol, Quantity: quantity, EntryPrice: entry}
}

// NewOption returns an option leg expiring in 'days' days.
func NewOption(symbol string, typ OptionType, strike float64, days, quantity int, entry float64) Position {
	return Position{
		Kind:         Option,
		Symbol:       symbol,
		OptionType:   typ,
		Strike:       strike,
		DaysToExpiry: days,
		Quantity:     quantity,
		EntryPrice:   entry,
	}
}

// Validate checks the leg can be valued.
func (p Position) Validate() error {
	switch p.Kind {
	case Stock:
		return nil
	case Option:
		if p.OptionType != Call && p.OptionType != Put {
			return fmt.Errorf("%w: %v", ErrInvalidOptionType, p.OptionType)
		}
		if !(p.Strike > 0) {
			return fmt.Errorf("invalid strike %v: must be positive", p.Strike)
		}
		if p.DaysToExpiry < 0 {
			return fmt.Errorf("invalid days to expiry %d: must not be negative", p.DaysToExpiry)
		}
		return nil
	}
	return fmt.Errorf("unknown position kind %v", p.Kind)
}

// ValidatePositions validates every leg and reports all the invalid ones.
func ValidatePositions(positions []Position) error {
	var errs error
	for i, p := range positions {
		if err := p.Validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("leg #%d (%s): %w", i, p, err))
		}
	}
	return errs
}

// String returns a one line description of the leg.
func (p Position) String() string {
	if p.Kind == Option {
		return fmt.Sprintf("Option: %s %s %dd Position: %d", p.OptionType, strconv.FormatFloat(p.Strike, 'f', -1, 64), p.DaysToExpiry, p.Quantity)
	}
	return fmt.Sprintf("Stock: %s Position: %d", p.Symbol, p.Quantity)
}
