package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/date"
	"github.com/etnz/payoff/renderer"
	"github.com/google/subcommands"
)

type plotCmd struct {
	positionsFlags
	legs    string
	spot    float64
	zoom    int
	points  int
	rng     float64
	rate    float64
	vol     float64
	workers int
	on      string
	rows    int
	out     string
	html    string
}

func (*plotCmd) Name() string     { return "plot" }
func (*plotCmd) Synopsis() string { return "plot the P&L of an underlying's legs today, halfway and at expiry" }
func (*plotCmd) Usage() string {
	return `pop plot [-legs 0,2] [-spot <price>] [-zoom <steps>] [-o chart.png] [-html report.html] <symbol>

  Values the selected legs of an underlying over a price grid around its latest
  price, at three horizons: today, halfway to the longest expiry, and at expiry.

  The report is printed as markdown. With -o the chart is written as a PNG,
  with -html the report and the chart are written as a web page.

  The latest price comes from EODHD unless -spot is given.
`
}

func (c *plotCmd) SetFlags(f *flag.FlagSet) {
	c.positionsFlags.SetFlags(f)
	f.StringVar(&c.legs, "legs", "", "Comma separated indices of the legs to value, as listed by 'pop legs'. Defaults to all.")
	f.Float64Var(&c.spot, "spot", 0, "Spot price to use instead of the latest quote.")
	f.IntVar(&c.zoom, "zoom", 0, "Zoom steps: positive narrows the price range by 5% per step, negative widens it.")
	f.IntVar(&c.points, "points", 0, "Number of grid points. Defaults to the configuration.")
	f.Float64Var(&c.rng, "range", 0, "Half width of the price range around spot, as a fraction (0.2 is ±20%). Defaults to the configuration.")
	f.Float64Var(&c.rate, "rate", 0, "Annualized risk-free rate. Defaults to the configuration.")
	f.Float64Var(&c.vol, "vol", 0, "Annualized volatility. Defaults to the configuration.")
	f.IntVar(&c.workers, "workers", 0, "Evaluate grid points with that many goroutines. Defaults to the configuration.")
	f.StringVar(&c.on, "on", "", "Valuation date, YYYY-MM-DD. Days to expiry are counted from this date when the export only has expiry dates. Defaults to today.")
	f.IntVar(&c.rows, "rows", 11, "Number of prices listed in the P&L table, 0 lists every grid point.")
	f.StringVar(&c.out, "o", "", "Write the chart to this PNG file.")
	f.StringVar(&c.html, "html", "", "Write the report and the chart to this HTML file.")
}

func (c *plotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: plot requires exactly one symbol")
		return subcommands.ExitUsageError
	}
	if c.spot < 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid spot %v\n", c.spot)
		return subcommands.ExitUsageError
	}
	opts, err := c.reportOptions(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, log, ok := mustLoadApp()
	if !ok {
		return subcommands.ExitFailure
	}
	table, err := c.load(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading positions: %v\n", err)
		return subcommands.ExitFailure
	}

	r, err := buildReport(ctx, cfg, log, table, reportRequest{
		symbol: f.Arg(0),
		legs:   c.legs,
		spot:   c.spot,
		opts:   opts,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.ReportMarkdown(r, c.rows)
	printMarkdown(md)

	if c.out != "" {
		png, err := renderer.RenderChart(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.out, png, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart %q: %v\n", c.out, err)
			return subcommands.ExitFailure
		}
		log.Info().Str("file", c.out).Msg("chart written")
	}

	if c.html != "" {
		if err := c.writeHTML(r, md); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report %q: %v\n", c.html, err)
			return subcommands.ExitFailure
		}
		log.Info().Str("file", c.html).Msg("report written")
	}
	return subcommands.ExitSuccess
}

// reportOptions converts the flags. Only the flags actually passed override
// the configuration, so that "-rate 0" values at a zero rate.
func (c *plotCmd) reportOptions(f *flag.FlagSet) (payoff.ReportOptions, error) {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	opts := payoff.ReportOptions{
		Volatility: c.vol,
		RangePct:   c.rng,
		Points:     c.points,
		Zoom:       c.zoom,
		Workers:    c.workers,
	}
	if set["rate"] {
		rate := c.rate
		opts.Rate = &rate
	}
	if set["vol"] && !(c.vol > 0) {
		return opts, fmt.Errorf("invalid volatility %v: must be positive", c.vol)
	}
	if set["points"] && c.points < 2 {
		return opts, fmt.Errorf("invalid points %d: must be at least 2", c.points)
	}
	if set["range"] && !(c.rng > 0 && c.rng < 1) {
		return opts, fmt.Errorf("invalid range %v: must be between 0 and 1", c.rng)
	}
	if c.on != "" {
		on, err := date.Parse(c.on)
		if err != nil {
			return opts, err
		}
		opts.On = on
	}
	return opts, nil
}

// writeHTML writes the web page, referencing the chart relative to the page.
func (c *plotCmd) writeHTML(r *payoff.Report, md string) error {
	var image string
	if c.out != "" {
		rel, err := filepath.Rel(filepath.Dir(c.html), c.out)
		if err != nil {
			rel = c.out
		}
		image = filepath.ToSlash(rel)
	}
	f, err := os.Create(c.html)
	if err != nil {
		return err
	}
	if err := writeHTML(f, renderer.Title(r.Symbol), md, image); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
