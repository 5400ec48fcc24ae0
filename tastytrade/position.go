package tastytrade

import (
	"fmt"
	"strings"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/date"
	"github.com/shopspring/decimal"
)

// expDateLayouts are the layouts accepted in the Exp Date column.
var expDateLayouts = []string{"1/2/06", "1/2/2006", "2006-01-02", "Jan 2, 2006"}

// Position converts the row to a leg of the portfolio.
//
// A row without Call/Put is a stock. For options, the Days To Expiration
// column ("30d") is used, and the Exp Date column, counted from 'on', when it
// is empty.
func (r Row) Position(on date.Date) (payoff.Position, error) {
	qty, err := parseInt(r.Quantity)
	if err != nil {
		return payoff.Position{}, r.errorf(ColQuantity, r.Quantity, err)
	}
	entry, err := parseDecimal(r.TradePrice)
	if err != nil {
		return payoff.Position{}, r.errorf(ColTradePrice, r.TradePrice, err)
	}
	price := entry.InexactFloat64()

	if r.CallPut == "" {
		return payoff.NewStock(r.Underlying(), qty, price), nil
	}

	typ, err := payoff.ParseOptionType(r.CallPut)
	if err != nil {
		return payoff.Position{}, r.errorf(ColCallPut, r.CallPut, err)
	}
	strike, err := parseDecimal(r.Strike)
	if err != nil {
		return payoff.Position{}, r.errorf(ColStrike, r.Strike, err)
	}
	days, err := r.daysToExpiry(on)
	if err != nil {
		return payoff.Position{}, err
	}
	p := payoff.NewOption(r.Underlying(), typ, strike.InexactFloat64(), days, qty, price)
	if err := p.Validate(); err != nil {
		return payoff.Position{}, fmt.Errorf("line %d: %w", r.Line, err)
	}
	return p, nil
}

func (r Row) daysToExpiry(on date.Date) (int, error) {
	if r.Days != "" {
		// "30d" counts days; tastytrade never uses another unit here
		days, err := parseInt(strings.TrimRight(r.Days, "dD"))
		if err != nil {
			return 0, r.errorf(ColDays, r.Days, err)
		}
		return days, nil
	}
	if r.ExpDate == "" {
		return 0, fmt.Errorf("line %d: option %q has neither %q nor %q", r.Line, r.Symbol, ColDays, ColExpDate)
	}
	exp, err := parseExpDate(r.ExpDate)
	if err != nil {
		return 0, r.errorf(ColExpDate, r.ExpDate, err)
	}
	return max(on.DaysUntil(exp), 0), nil
}

// Label returns the display line of the row in a leg listing.
func (r Row) Label() string {
	if r.Type == TypeStock || r.CallPut == "" {
		return fmt.Sprintf("Stock: %s Position: %s", r.Symbol, r.Quantity)
	}
	return fmt.Sprintf("Option: %s %s %s Position: %s", orUnknown(r.CallPut), orUnknown(r.Strike), orUnknown(r.ExpDate), r.Quantity)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func (r Row) errorf(column, value string, err error) error {
	return fmt.Errorf("line %d (%s): invalid %s %q: %w", r.Line, r.Symbol, column, value, err)
}

// parseDecimal parses a number as printed in the export, with optional
// thousands separators and dollar sign.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(s)
}

func parseInt(s string) (int, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number", d)
	}
	return int(d.IntPart()), nil
}

func parseExpDate(s string) (date.Date, error) {
	var firstErr error
	for _, layout := range expDateLayouts {
		d, err := date.ParseLayout(layout, s)
		if err == nil {
			return d, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return date.Date{}, firstErr
}
