package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/payoff"
	"github.com/etnz/payoff/date"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// ReportMarkdown renders the report as a markdown document. The P&L table
// samples 'rows' grid points evenly, first and last included; rows <= 0 prints
// every point.
func ReportMarkdown(r *payoff.Report, rows int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(Title(r.Symbol))
	doc.PlainText(fmt.Sprintf("%s on %s, range %s, %d points.", SpotLabel(r.Spot), r.On, r.Range, len(r.Grid)))

	doc.H2("Horizons")
	doc.BulletList(
		fmt.Sprintf("Today: %s", r.On.Format(date.LabelFormat)),
		HalfwayLabel(r),
		ExpiryLabel(r),
		fmt.Sprintf("Rate: %.2f%%, Volatility: %.2f%%", r.Context.Rate*100, r.Context.Volatility*100),
	)

	doc.H2("Legs")
	legs := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignRight},
		Header:    []string{"#", "Leg", "Entry"},
		Rows:      [][]string{},
	}
	for i, p := range r.Positions {
		legs.Rows = append(legs.Rows, []string{fmt.Sprint(i), p.String(), decimal.NewFromFloat(p.EntryPrice).StringFixed(2)})
	}
	doc.Table(legs)

	doc.H2("P&L")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Price", "Today", "Halfway", "Expiry"},
		Rows:      [][]string{},
	}
	for _, i := range sampleIndices(len(r.Grid), rows) {
		table.Rows = append(table.Rows, []string{
			decimal.NewFromFloat(r.Grid[i]).StringFixed(2),
			Money(r.Curves.Today[i]),
			Money(r.Curves.Halfway[i]),
			Money(r.Curves.Expiry[i]),
		})
	}
	doc.Table(table)

	doc.H2("At Expiry")
	maxProfit, maxLoss := r.Extremes()
	breakevens := make([]string, 0)
	for _, b := range r.Breakevens() {
		breakevens = append(breakevens, decimal.NewFromFloat(b).StringFixed(2))
	}
	if len(breakevens) == 0 {
		breakevens = append(breakevens, "none in range")
	}
	doc.BulletList(
		fmt.Sprintf("Max profit: %s", Money(maxProfit)),
		fmt.Sprintf("Max loss: %s", Money(maxLoss)),
		fmt.Sprintf("Breakevens: %s", strings.Join(breakevens, ", ")),
	)

	return doc.String()
}

// Title is the report and chart title.
func Title(symbol string) string { return fmt.Sprintf("Option Portfolio P&L for %s", symbol) }

// SpotLabel labels the spot price marker.
func SpotLabel(spot float64) string { return fmt.Sprintf("Current Price: %.2f", spot) }

// HalfwayLabel labels the halfway curve with its calendar date.
func HalfwayLabel(r *payoff.Report) string {
	if d, ok := r.HalfwayDate(); ok {
		return fmt.Sprintf("Halfway: %s", d.Format(date.LabelFormat))
	}
	return "Halfway: Unknown"
}

// ExpiryLabel labels the expiry curve with its calendar date.
func ExpiryLabel(r *payoff.Report) string {
	if d, ok := r.ExpiryDate(); ok {
		return fmt.Sprintf("Expiry: %s", d.Format(date.LabelFormat))
	}
	return "Expiry: Unknown"
}

// Money formats a P&L amount in dollars, rounded to the cent.
func Money(v float64) string {
	cents := decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// sampleIndices returns 'rows' indices evenly spread over [0, n-1].
func sampleIndices(n, rows int) []int {
	if rows <= 0 || rows >= n {
		rows = n
	}
	if rows == 1 {
		return []int{0}
	}
	idx := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		idx = append(idx, i*(n-1)/(rows-1))
	}
	return idx
}
