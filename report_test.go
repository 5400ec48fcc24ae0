package payoff

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/etnz/payoff/date"
)

// countingQuote records how many times it was asked for a price.
type countingQuote struct {
	price float64
	err   error
	calls int
}

func (q *countingQuote) LatestPrice(_ context.Context, _ string) (float64, error) {
	q.calls++
	return q.price, q.err
}

func TestFixedQuote(t *testing.T) {
	if p, err := FixedQuote(42.5).LatestPrice(context.Background(), "XYZ"); err != nil || p != 42.5 {
		t.Errorf("FixedQuote(42.5).LatestPrice() = %v, %v, want 42.5, nil", p, err)
	}
	for _, q := range []FixedQuote{0, -1, FixedQuote(math.NaN())} {
		if _, err := q.LatestPrice(context.Background(), "XYZ"); !errors.Is(err, ErrNoPrice) {
			t.Errorf("FixedQuote(%v).LatestPrice() error = %v, want ErrNoPrice", float64(q), err)
		}
	}
}

func TestNewReport(t *testing.T) {
	on := date.New(2026, 10, 19)
	positions := []Position{
		NewOption("XYZ", Call, 100, 30, 1, 5),
		NewStock("XYZ", 0, -100),
	}
	r, err := NewReport(context.Background(), FixedQuote(100), "XYZ", positions, ReportOptions{On: on})
	if err != nil {
		t.Fatalf("NewReport() unexpected error: %v", err)
	}

	if r.Spot != 100 {
		t.Errorf("Spot = %v, want 100", r.Spot)
	}
	if len(r.Grid) != DefaultGridPoints {
		t.Errorf("len(Grid) = %d, want %d", len(r.Grid), DefaultGridPoints)
	}
	if math.Abs(r.Grid[0]-80) > 1e-9 || math.Abs(r.Grid[len(r.Grid)-1]-120) > 1e-9 {
		t.Errorf("Grid spans [%v, %v], want [80, 120]", r.Grid[0], r.Grid[len(r.Grid)-1])
	}
	if r.Context.Rate != DefaultRate || r.Context.Volatility != DefaultVolatility {
		t.Errorf("Context = %+v, want default rate and volatility", r.Context)
	}
	for name, v := range map[string][]float64{"today": r.Curves.Today, "halfway": r.Curves.Halfway, "expiry": r.Curves.Expiry} {
		if len(v) != len(r.Grid) {
			t.Errorf("len(%s) = %d, want %d", name, len(v), len(r.Grid))
		}
	}

	if got, ok := r.ExpiryDate(); !ok || got != date.New(2026, 11, 18) {
		t.Errorf("ExpiryDate() = %v, %v, want 2026-11-18, true", got, ok)
	}
	if got, ok := r.HalfwayDate(); !ok || got != date.New(2026, 11, 3) {
		t.Errorf("HalfwayDate() = %v, %v, want 2026-11-03, true", got, ok)
	}

	be := r.Breakevens()
	if len(be) != 1 || math.Abs(be[0]-105) > 1e-6 {
		t.Errorf("Breakevens() = %v, want [105]", be)
	}
	maxProfit, maxLoss := r.Extremes()
	if math.Abs(maxProfit-1500) > 1e-6 || math.Abs(maxLoss+500) > 1e-6 {
		t.Errorf("Extremes() = %v, %v, want 1500, -500", maxProfit, maxLoss)
	}
}

func TestNewReport_Options(t *testing.T) {
	positions := []Position{NewOption("XYZ", Put, 50, 10, 1, 1)}
	rate := 0.01
	r, err := NewReport(context.Background(), FixedQuote(50), "XYZ", positions, ReportOptions{
		Rate:       &rate,
		Volatility: 0.5,
		RangePct:   0.1,
		Points:     11,
		Zoom:       -1,
	})
	if err != nil {
		t.Fatalf("NewReport() unexpected error: %v", err)
	}
	if len(r.Grid) != 11 {
		t.Errorf("len(Grid) = %d, want 11", len(r.Grid))
	}
	want := AroundSpot(50, 0.1).ZoomOut()
	if r.Range != want {
		t.Errorf("Range = %v, want %v", r.Range, want)
	}
	if r.Context.Rate != 0.01 || r.Context.Volatility != 0.5 {
		t.Errorf("Context = %+v, want rate 0.01 and volatility 0.5", r.Context)
	}
	if r.On.IsZero() {
		t.Errorf("On is zero, want today")
	}
}

func TestNewReport_Failures(t *testing.T) {
	valid := []Position{NewOption("XYZ", Call, 100, 30, 1, 5)}
	inf := math.Inf(1)
	testCases := []struct {
		name      string
		quote     *countingQuote
		positions []Position
		opts      ReportOptions
		wantErr   error
		wantCalls int
	}{
		{
			name:      "no position",
			quote:     &countingQuote{price: 100},
			positions: nil,
			wantCalls: 0,
		},
		{
			name:      "invalid leg is rejected before quoting",
			quote:     &countingQuote{price: 100},
			positions: []Position{NewOption("XYZ", OptionType(5), 100, 30, 1, 5)},
			wantErr:   ErrInvalidOptionType,
			wantCalls: 0,
		},
		{
			name:      "no price",
			quote:     &countingQuote{err: ErrNoPrice},
			positions: valid,
			wantErr:   ErrNoPrice,
			wantCalls: 1,
		},
		{
			name:      "zero price",
			quote:     &countingQuote{price: 0},
			positions: valid,
			wantErr:   ErrNoPrice,
			wantCalls: 1,
		},
		{
			name:      "negative volatility",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{Volatility: -0.2},
			wantCalls: 0,
		},
		{
			name:      "single grid point",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{Points: 1},
			wantCalls: 0,
		},
		{
			name:      "negative grid points",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{Points: -5},
			wantCalls: 0,
		},
		{
			name:      "range wider than spot",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{RangePct: 1.5},
			wantCalls: 0,
		},
		{
			name:      "negative range",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{RangePct: -0.1},
			wantCalls: 0,
		},
		{
			name:      "infinite rate",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{Rate: &inf},
			wantCalls: 0,
		},
		{
			name:      "zoomed into an empty range",
			quote:     &countingQuote{price: 100},
			positions: valid,
			opts:      ReportOptions{Zoom: 10},
			wantCalls: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewReport(context.Background(), tc.quote, "XYZ", tc.positions, tc.opts)
			if err == nil {
				t.Fatalf("NewReport() = %v, want an error", r)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("NewReport() error = %v, want %v", err, tc.wantErr)
			}
			if tc.quote.calls != tc.wantCalls {
				t.Errorf("quoter called %d times, want %d", tc.quote.calls, tc.wantCalls)
			}
		})
	}
}

func TestNewReport_ZeroRate(t *testing.T) {
	positions := []Position{NewOption("XYZ", Call, 100, 30, 1, 5)}
	zero := 0.0
	r, err := NewReport(context.Background(), FixedQuote(100), "XYZ", positions, ReportOptions{Rate: &zero, Volatility: 0.2})
	if err != nil {
		t.Fatalf("NewReport() unexpected error: %v", err)
	}
	if r.Context.Rate != 0 {
		t.Errorf("Context.Rate = %v, want 0", r.Context.Rate)
	}
	spot := r.Grid[0]
	want, _ := Price(spot, 100, r.Context.Now, 0, 0.2, Call)
	if got := r.Curves.Today[0]; math.Abs(got-(want*100-500)) > 1e-9 {
		t.Errorf("Today[0] = %v, want %v valued at a zero rate", got, want*100-500)
	}

	def, err := NewReport(context.Background(), FixedQuote(100), "XYZ", positions, ReportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if def.Context.Rate != DefaultRate {
		t.Errorf("Context.Rate = %v, want %v when unset", def.Context.Rate, DefaultRate)
	}
}

func TestNewReport_Workers(t *testing.T) {
	positions := []Position{
		NewOption("XYZ", Put, 95, 40, -1, 1.2),
		NewOption("XYZ", Call, 105, 40, -1, 1.1),
	}
	seq, err := NewReport(context.Background(), FixedQuote(100), "XYZ", positions, ReportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	par, err := NewReport(context.Background(), FixedQuote(100), "XYZ", positions, ReportOptions{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i := range seq.Grid {
		if seq.Curves.Today[i] != par.Curves.Today[i] || seq.Curves.Expiry[i] != par.Curves.Expiry[i] {
			t.Fatalf("grid[%d]: concurrent report differs from sequential", i)
		}
	}
}

func TestReport_StockOnly(t *testing.T) {
	positions := []Position{NewStock("XYZ", 10, -50)}
	r, err := NewReport(context.Background(), FixedQuote(50), "XYZ", positions, ReportOptions{})
	if err != nil {
		t.Fatalf("NewReport() unexpected error: %v", err)
	}
	if _, ok := r.ExpiryDate(); ok {
		t.Errorf("ExpiryDate() ok = true, want false for a stock only portfolio")
	}
	if _, ok := r.HalfwayDate(); ok {
		t.Errorf("HalfwayDate() ok = true, want false for a stock only portfolio")
	}
	for i := range r.Grid {
		if r.Curves.Today[i] != r.Curves.Expiry[i] {
			t.Fatalf("grid[%d]: stock P&L differs between horizons", i)
		}
	}
}

func TestReport_Rezoom(t *testing.T) {
	positions := []Position{NewOption("XYZ", Call, 100, 30, 1, 5)}
	r, err := NewReport(context.Background(), FixedQuote(100), "XYZ", positions, ReportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	z, err := r.Rezoom(1)
	if err != nil {
		t.Fatalf("Rezoom(1) unexpected error: %v", err)
	}
	if z.Range != r.Range.ZoomIn() {
		t.Errorf("Rezoom(1).Range = %v, want %v", z.Range, r.Range.ZoomIn())
	}
	if len(z.Grid) != len(r.Grid) {
		t.Errorf("Rezoom(1) has %d points, want %d", len(z.Grid), len(r.Grid))
	}
	if r.Grid[0] == z.Grid[0] {
		t.Errorf("Rezoom(1) modified the original report")
	}
	fresh, err := Evaluate(z.Grid, positions, z.Context)
	if err != nil {
		t.Fatal(err)
	}
	for i := range z.Grid {
		if fresh.Expiry[i] != z.Curves.Expiry[i] || fresh.Today[i] != z.Curves.Today[i] {
			t.Fatalf("grid[%d]: rezoomed curves differ from a fresh evaluation", i)
		}
	}
	if _, err := r.Rezoom(20); err == nil {
		t.Errorf("Rezoom(20) error = nil, want an invalid range error")
	}
}

func TestZeroCrossings(t *testing.T) {
	testCases := []struct {
		name string
		xs   []float64
		ys   []float64
		want []float64
	}{
		{"none", []float64{1, 2, 3}, []float64{1, 2, 3}, nil},
		{"interpolated", []float64{0, 10}, []float64{-1, 3}, []float64{2.5}},
		{"exact point", []float64{0, 1, 2}, []float64{-1, 0, 1}, []float64{1}},
		{"last point", []float64{0, 1}, []float64{1, 0}, []float64{1}},
		{"two crossings", []float64{0, 1, 2}, []float64{-1, 1, -1}, []float64{0.5, 1.5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := zeroCrossings(tc.xs, tc.ys)
			if len(got) != len(tc.want) {
				t.Fatalf("zeroCrossings() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if math.Abs(got[i]-tc.want[i]) > 1e-12 {
					t.Errorf("zeroCrossings()[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
