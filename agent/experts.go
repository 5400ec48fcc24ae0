package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/docs"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// Desk gives read access to the user's positions.
type Desk interface {
	// Symbols lists the underlyings of the latest positions export.
	Symbols() ([]string, error)
	// Legs lists the legs of an underlying, one label per leg index.
	Legs(symbol string) ([]string, error)
	// Report values the selected legs and returns the markdown report.
	Report(ctx context.Context, symbol, legs string, zoom int) (string, error)
}

// NewFacilitator creates the expert in charge of the conversation.
func NewFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user holds option and stock positions on a few underlyings. They come to understand
			how their positions behave if the underlying price moves, today, halfway to expiry and at expiry.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Answer in markdown, keep figures in dollars.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewStrategist creates an expert grounded on Google Search for market news.
func NewStrategist(model string) *Expert {
	return &Expert{
		Name: "Strategist",
		Description: `This is an options strategist,
		aware of the latest news about the companies and their volatility.
		Ask the Strategist whenever you need recent or grounding information about an underlying.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in options strategies. You search for the news, the earnings dates
			and the implied volatility of the underlyings. You leverage Google Search to
			ground your assertions in a solid truth.
			`}}},
		},
	}
}

// NewAnalyst creates the expert that reads and values the user's positions.
func NewAnalyst(model string, desk Desk) *Expert {
	lib := AnalystTools(desk)
	conventions, err := docs.GetTopic("conventions")
	if err != nil {
		conventions = ""
	}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They read the user's positions and value them.
		They compute the P&L of any selection of legs over a range of prices, the breakevens,
		the maximum profit and loss at expiry, and Black-Scholes prices.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's option positions.
				Use the Tools to list the underlyings, their legs, and to value them.
				Legs are selected by their index as listed by the Legs tool.

				The valuation follows these conventions:

				` + conventions}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return errorResponse(id, f.Decl.Name, err)
	}
	return outputResponse(id, f.Decl.Name, out)
}

// AnalystTools returns the functions of the analyst.
func AnalystTools(desk Desk) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Symbols",
				Description: "Symbols lists the underlyings of the user's positions, options first then stocks.",
				Parameters:  &genai.Schema{Type: genai.TypeObject},
				Response:    &genai.Schema{Type: genai.TypeString, Description: "One symbol per line."},
			},
			Func: func(_ context.Context, _ map[string]any) (string, error) {
				symbols, err := desk.Symbols()
				if err != nil {
					return "", err
				}
				return strings.Join(symbols, "\n"), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Legs",
				Description: "Legs lists the option and stock legs of an underlying with their index.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbol": {Type: genai.TypeString, Description: "The underlying symbol, like AAPL."},
					},
					Required: []string{"symbol"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "One leg per line, prefixed by its index."},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				symbol, err := stringArg(args, "symbol", true)
				if err != nil {
					return "", err
				}
				legs, err := desk.Legs(symbol)
				if err != nil {
					return "", err
				}
				var b strings.Builder
				for i, l := range legs {
					fmt.Fprintf(&b, "%d\t%s\n", i, l)
				}
				return b.String(), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name: "Payoff",
				Description: `Payoff values the selected legs of an underlying around its latest price,
				today, halfway to the longest expiry and at expiry.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbol": {Type: genai.TypeString, Description: "The underlying symbol, like AAPL."},
						"legs":   {Type: genai.TypeString, Description: "Comma separated leg indices, like 0,2. Empty selects every leg."},
						"zoom":   {Type: genai.TypeInteger, Description: "Zoom steps, positive narrows the price range by 5% per step, negative widens it."},
					},
					Required: []string{"symbol"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown report with the P&L table, breakevens and extremes."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				symbol, err := stringArg(args, "symbol", true)
				if err != nil {
					return "", err
				}
				legs, err := stringArg(args, "legs", false)
				if err != nil {
					return "", err
				}
				zoom, err := intArg(args, "zoom")
				if err != nil {
					return "", err
				}
				return desk.Report(ctx, symbol, legs, zoom)
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Price",
				Description: "Price computes the Black-Scholes value of a European option.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"spot":       {Type: genai.TypeNumber, Description: "Underlying price."},
						"strike":     {Type: genai.TypeNumber, Description: "Strike price."},
						"days":       {Type: genai.TypeNumber, Description: "Days to expiry."},
						"rate":       {Type: genai.TypeNumber, Description: "Annualized risk-free rate, 0.0525 for 5.25%. Defaults to 0.0525."},
						"volatility": {Type: genai.TypeNumber, Description: "Annualized volatility, 0.2 for 20%. Defaults to 0.2."},
						"type":       {Type: genai.TypeString, Description: "call or put."},
					},
					Required: []string{"spot", "strike", "days", "type"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The option value per share."},
			},
			Func: priceTool,
		},
	}
}

func priceTool(_ context.Context, args map[string]any) (string, error) {
	// rate and volatility keep their default only when absent, a zero rate is valid
	in := [5]float64{3: payoff.DefaultRate, 4: payoff.DefaultVolatility}
	for i, name := range []string{"spot", "strike", "days", "rate", "volatility"} {
		v, ok, err := floatArg(args, name)
		if err != nil {
			return "", err
		}
		if !ok {
			if i < 3 {
				return "", fmt.Errorf("missing argument '%s'", name)
			}
			continue
		}
		in[i] = v
	}
	spot, strike, days, rate, vol := in[0], in[1], in[2], in[3], in[4]
	if !(spot > 0) || !(strike > 0) || days < 0 || !(vol > 0) {
		return "", fmt.Errorf("invalid inputs spot=%v strike=%v days=%v volatility=%v", spot, strike, days, vol)
	}
	s, err := stringArg(args, "type", true)
	if err != nil {
		return "", err
	}
	typ, err := payoff.ParseOptionType(s)
	if err != nil {
		return "", err
	}
	v, err := payoff.Price(spot, strike, days/payoff.DaysPerYear, rate, vol, typ)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.4f", v), nil
}

func stringArg(args map[string]any, name string, required bool) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing argument '%s'", name)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument '%s' is not a string as expected but %T", name, v)
	}
	return s, nil
}

// floatArg reads a number. JSON numbers decode as float64.
func floatArg(args map[string]any, name string) (float64, bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch x := v.(type) {
	case float64:
		return x, true, nil
	case int:
		return float64(x), true, nil
	case int64:
		return float64(x), true, nil
	default:
		return 0, false, fmt.Errorf("argument '%s' is not a number as expected but %T", name, v)
	}
}

func intArg(args map[string]any, name string) (int, error) {
	v, _, err := floatArg(args, name)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("argument '%s' must be an integer, got %v", name, v)
	}
	return int(v), nil
}
