package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/payoff"
	"github.com/google/subcommands"
)

type priceCmd struct {
	spot   float64
	strike float64
	days   int
	rate   float64
	vol    float64
	typ    string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "price a European option with Black-Scholes" }
func (*priceCmd) Usage() string {
	return `pop price -S <spot> -K <strike> -days <days> [-r <rate>] [-vol <volatility>] [-type call|put]

  Prints the Black-Scholes value of one European option, per share. With
  -days 0 the value is the intrinsic value.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.spot, "S", 0, "Spot price of the underlying.")
	f.Float64Var(&c.strike, "K", 0, "Strike price.")
	f.IntVar(&c.days, "days", 0, "Days to expiry.")
	f.Float64Var(&c.rate, "r", payoff.DefaultRate, "Annualized risk-free rate.")
	f.Float64Var(&c.vol, "vol", payoff.DefaultVolatility, "Annualized volatility.")
	f.StringVar(&c.typ, "type", "call", "Option type: call or put.")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !(c.spot > 0) || !(c.strike > 0) {
		fmt.Fprintln(os.Stderr, "Error: -S and -K must be positive")
		return subcommands.ExitUsageError
	}
	if c.days > 0 && !(c.vol > 0) {
		fmt.Fprintln(os.Stderr, "Error: -vol must be positive")
		return subcommands.ExitUsageError
	}
	typ, err := payoff.ParseOptionType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	v, err := payoff.Price(c.spot, c.strike, float64(c.days)/payoff.DaysPerYear, c.rate, c.vol, typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%.4f\n", v)
	return subcommands.ExitSuccess
}
