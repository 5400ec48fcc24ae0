package renderer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(t *testing.T, positions ...payoff.Position) *payoff.Report {
	t.Helper()
	r, err := payoff.NewReport(context.Background(), payoff.FixedQuote(100), "XYZ", positions, payoff.ReportOptions{
		On:     date.New(2026, 10, 19),
		Points: 41,
	})
	require.NoError(t, err)
	return r
}

func TestMoney(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1500, "$1,500.00"},
		{-500, "-$500.00"},
		{12.345, "$12.35"},
		{-0.004, "$0.00"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Money(tc.in), "Money(%v)", tc.in)
	}
}

func TestSampleIndices(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sampleIndices(5, 0))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sampleIndices(5, 10))
	assert.Equal(t, []int{0, 2, 4}, sampleIndices(5, 3))
	assert.Equal(t, []int{0, 50, 99}, sampleIndices(100, 3))
	assert.Equal(t, []int{0}, sampleIndices(100, 1))
}

func TestReportMarkdown(t *testing.T) {
	r := newReport(t,
		payoff.NewOption("XYZ", payoff.Call, 100, 30, 1, 5),
		payoff.NewStock("XYZ", 0, -100),
	)
	out := ReportMarkdown(r, 5)

	for _, want := range []string{
		"# Option Portfolio P&L for XYZ",
		"Current Price: 100.00 on 2026-10-19",
		"- Today: 19-Oct-26",
		"- Halfway: 03-Nov-26",
		"- Expiry: 18-Nov-26",
		"| Option: call 100 30d Position: 1 |",
		"| Stock: XYZ Position: 0 |",
		"| Price | Today | Halfway | Expiry |",
		"| 80.00 |",
		"| 120.00 |",
		"$1,500.00",
		"- Max profit: $1,500.00",
		"- Max loss: -$500.00",
		"- Breakevens: 105.00",
	} {
		assert.Contains(t, out, want)
	}
	// header, separator and 5 sampled rows
	tableStart := strings.Index(out, "| Price |")
	require.GreaterOrEqual(t, tableStart, 0)
	lines := strings.Split(strings.TrimSpace(out[tableStart:strings.Index(out, "## At Expiry")]), "\n")
	assert.Len(t, lines, 7)
}

func TestReportMarkdown_StockOnly(t *testing.T) {
	r := newReport(t, payoff.NewStock("XYZ", 10, -100))
	out := ReportMarkdown(r, 0)
	assert.Contains(t, out, "- Halfway: Unknown")
	assert.Contains(t, out, "- Expiry: Unknown")
	assert.Contains(t, out, "- Breakevens: 100.00")
}

func TestReportMarkdown_NoBreakeven(t *testing.T) {
	// deep in the money long call bought for nothing: always profitable
	r := newReport(t, payoff.NewOption("XYZ", payoff.Call, 50, 30, 1, 0))
	out := ReportMarkdown(r, 3)
	assert.Contains(t, out, "- Breakevens: none in range")
}

func TestRenderChart(t *testing.T) {
	r := newReport(t,
		payoff.NewOption("XYZ", payoff.Put, 95, 20, -1, 1.5),
		payoff.NewOption("XYZ", payoff.Call, 105, 20, -1, 1.2),
	)
	png, err := RenderChart(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")), "output should be a PNG")
}

func TestRenderChart_FlatPortfolio(t *testing.T) {
	r := newReport(t, payoff.NewStock("XYZ", 0, -100))
	_, err := RenderChart(r)
	assert.NoError(t, err)
}

func TestRenderChart_TooFewPoints(t *testing.T) {
	r := newReport(t, payoff.NewStock("XYZ", 1, -100))
	r.Grid = r.Grid[:1]
	_, err := RenderChart(r)
	assert.Error(t, err)
}
