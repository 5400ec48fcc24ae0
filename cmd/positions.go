package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/date"
	"github.com/etnz/payoff/eodhd"
	"github.com/etnz/payoff/tastytrade"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// positionsFlags are shared by the commands reading the broker export.
type positionsFlags struct {
	dir string
}

func (p *positionsFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.dir, "dir", "", "Folder holding the tastytrade exports. Overrides positions.dir of the configuration.")
}

// load decodes the latest export.
func (p *positionsFlags) load(cfg *Config, log zerolog.Logger) (*tastytrade.Table, error) {
	dir := cfg.Positions.Dir
	if p.dir != "" {
		dir = p.dir
	}
	table, path, err := tastytrade.Load(dir, cfg.Positions.Prefix)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Int("rows", len(table.Rows)).Msg("positions loaded")
	return table, nil
}

// newQuoter returns the quote service, or a fixed quote when spot is set.
func newQuoter(cfg *Config, log zerolog.Logger, spot float64) (payoff.Quoter, error) {
	if spot != 0 {
		return payoff.FixedQuote(spot), nil
	}
	if cfg.EODHD.APIKey == "" {
		return nil, fmt.Errorf("missing EODHD API key: set %s, eodhd.api_key in the configuration, or use -spot", eodhd.APIKeyEnv)
	}
	return eodhd.NewClient(cfg.EODHD.APIKey,
		eodhd.WithBaseURL(cfg.EODHD.BaseURL),
		eodhd.WithLogger(log),
		eodhd.WithRateLimit(cfg.EODHD.RateLimit),
		eodhd.WithTimeout(cfg.EODHD.GetTimeout()),
		eodhd.WithCache("", cfg.EODHD.GetCache()),
	), nil
}

// reportRequest is everything needed to build a report from the broker export.
type reportRequest struct {
	symbol string
	legs   string
	spot   float64
	opts   payoff.ReportOptions
}

// buildReport selects the legs of the symbol and values them.
func buildReport(ctx context.Context, cfg *Config, log zerolog.Logger, table *tastytrade.Table, req reportRequest) (*payoff.Report, error) {
	symbol := strings.ToUpper(req.symbol)
	rows := table.Legs(symbol)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no position found for %s", symbol)
	}
	on := req.opts.On
	if on.IsZero() {
		on = date.Today()
	}
	positions, err := selectPositions(rows, req.legs, on)
	if err != nil {
		return nil, fmt.Errorf("invalid positions for %s: %w", symbol, err)
	}

	q, err := newQuoter(cfg, log, req.spot)
	if err != nil {
		return nil, err
	}

	opts := req.opts
	opts.On = on
	if opts.Rate == nil {
		rate := cfg.Rate
		opts.Rate = &rate
	}
	if opts.Volatility == 0 {
		opts.Volatility = cfg.Volatility
	}
	if opts.Points == 0 {
		opts.Points = cfg.Points
	}
	if opts.RangePct == 0 {
		opts.RangePct = cfg.Range
	}
	if opts.Workers == 0 {
		opts.Workers = cfg.Workers
	}

	r, err := payoff.NewReport(ctx, q, symbol, positions, opts)
	if err != nil {
		return nil, err
	}
	log.Info().Str("symbol", symbol).Float64("spot", r.Spot).Int("legs", len(positions)).Str("range", r.Range.String()).Msg("portfolio evaluated")
	return r, nil
}

type symbolsCmd struct {
	positionsFlags
}

func (*symbolsCmd) Name() string     { return "symbols" }
func (*symbolsCmd) Synopsis() string { return "list the underlyings of the latest positions export" }
func (*symbolsCmd) Usage() string {
	return `pop symbols [-dir <folder>]

  Lists the underlying symbols found in the most recent tastytrade positions
  export, options first, then stocks.
`
}

func (c *symbolsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, ok := mustLoadApp()
	if !ok {
		return subcommands.ExitFailure
	}
	table, err := c.load(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading positions: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, u := range table.Underlyings() {
		fmt.Println(u)
	}
	return subcommands.ExitSuccess
}

type legsCmd struct {
	positionsFlags
}

func (*legsCmd) Name() string     { return "legs" }
func (*legsCmd) Synopsis() string { return "list the legs of an underlying with their index" }
func (*legsCmd) Usage() string {
	return `pop legs [-dir <folder>] <symbol>

  Lists the option and stock legs of an underlying in the latest positions
  export. The index is used by 'pop plot -legs' to select legs.
`
}

func (c *legsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: legs requires exactly one symbol")
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
	symbol := strings.ToUpper(f.Arg(0))
	rows := table.Legs(symbol)
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no position found for %s\n", symbol)
		return subcommands.ExitFailure
	}
	for i, r := range rows {
		fmt.Printf("%d\t%s\n", i, r.Label())
	}
	return subcommands.ExitSuccess
}
