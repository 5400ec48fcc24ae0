package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/date"
	"github.com/etnz/payoff/tastytrade"
)

// parseLegs parses a comma separated list of leg indices in [0, n). An empty
// list selects every leg.
func parseLegs(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	var indices []int
	seen := make(map[int]bool)
	for _, f := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid leg index %q", f)
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("leg index %d out of range [0, %d)", i, n)
		}
		if seen[i] {
			return nil, fmt.Errorf("leg index %d selected twice", i)
		}
		seen[i] = true
		indices = append(indices, i)
	}
	return indices, nil
}

// selectPositions converts the selected rows into positions. Every invalid row
// is reported.
func selectPositions(rows []tastytrade.Row, legs string, on date.Date) ([]payoff.Position, error) {
	indices, err := parseLegs(legs, len(rows))
	if err != nil {
		return nil, err
	}
	var positions []payoff.Position
	var errs error
	for _, i := range indices {
		p, err := rows[i].Position(on)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("leg %d: %w", i, err))
			continue
		}
		positions = append(positions, p)
	}
	if errs != nil {
		return nil, errs
	}
	return positions, nil
}
