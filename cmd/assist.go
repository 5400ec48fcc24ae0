package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/payoff/agent"
	"github.com/etnz/payoff/renderer"
	"github.com/etnz/payoff/tastytrade"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

type assistCmd struct {
	positionsFlags
	spot float64
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `pop assist [-dir <folder>] [<question>]

  Starts an interactive session with a Gemini assistant that can list and value
  your positions. The question, if any, is asked first.

  The Gemini client reads GOOGLE_API_KEY from the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.positionsFlags.SetFlags(f)
	f.Float64Var(&c.spot, "spot", 0, "Spot price to use instead of the latest quote.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, ok := mustLoadApp()
	if !ok {
		return subcommands.ExitFailure
	}
	table, err := c.load(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading positions: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := cfg.Gemini.Model
	if model == "" {
		model = agent.DefaultModel
	}
	analyst := agent.NewAnalyst(model, &desk{cfg: cfg, log: log, table: table, spot: c.spot})
	strategist := agent.NewStrategist(model)
	a := agent.New(os.Stdout, os.Stdin, model, strategist, analyst)
	for _, e := range []*agent.Expert{analyst, strategist, a.Facilitator} {
		e.Logger = log
	}
	a.Render = renderMarkdown

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// desk serves the positions export to the assistant.
type desk struct {
	cfg   *Config
	log   zerolog.Logger
	table *tastytrade.Table
	spot  float64
}

func (d *desk) Symbols() ([]string, error) { return d.table.Underlyings(), nil }

func (d *desk) Legs(symbol string) ([]string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	rows := d.table.Legs(symbol)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no position found for %s", symbol)
	}
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label()
	}
	return labels, nil
}

func (d *desk) Report(ctx context.Context, symbol, legs string, zoom int) (string, error) {
	r, err := buildReport(ctx, d.cfg, d.log, d.table, reportRequest{
		symbol: symbol,
		legs:   legs,
		spot:   d.spot,
	})
	if err != nil {
		return "", err
	}
	if zoom != 0 {
		if r, err = r.Rezoom(zoom); err != nil {
			return "", err
		}
	}
	return renderer.ReportMarkdown(r, 21), nil
}
