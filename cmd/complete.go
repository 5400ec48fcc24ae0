package cmd

import (
	"github.com/etnz/payoff/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of pop. Install it with
// COMP_INSTALL=1 pop.
func Completion() *complete.Command {
	positions := map[string]complete.Predictor{
		"dir": predict.Dirs("*"),
	}
	withPositions := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		for k, v := range positions {
			flags[k] = v
		}
		return flags
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.toml"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
		Sub: map[string]*complete.Command{
			"symbols": {Flags: withPositions(map[string]complete.Predictor{})},
			"legs": {
				Flags: withPositions(map[string]complete.Predictor{}),
				Args:  predict.Something,
			},
			"plot": {
				Flags: withPositions(map[string]complete.Predictor{
					"legs":    predict.Something,
					"spot":    predict.Something,
					"zoom":    predict.Set{"-2", "-1", "1", "2"},
					"points":  predict.Something,
					"range":   predict.Something,
					"rate":    predict.Something,
					"vol":     predict.Something,
					"workers": predict.Something,
					"on":      predict.Something,
					"rows":    predict.Something,
					"o":       predict.Files("*.png"),
					"html":    predict.Files("*.html"),
				}),
				Args: predict.Something,
			},
			"price": {
				Flags: map[string]complete.Predictor{
					"S":    predict.Something,
					"K":    predict.Something,
					"days": predict.Something,
					"r":    predict.Something,
					"vol":  predict.Something,
					"type": predict.Set{"call", "put"},
				},
			},
			"topic": {Args: complete.PredictFunc(predictTopics)},
			"assist": {
				Flags: withPositions(map[string]complete.Predictor{
					"spot": predict.Something,
				}),
				Args: predict.Nothing,
			},
			"help":     {Args: predict.Set{"symbols", "legs", "plot", "price", "topic", "assist"}},
			"flags":    {Args: predict.Nothing},
			"commands": {Args: predict.Nothing},
		},
	}
}

func predictTopics(prefix string) []string {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	return append(topics, "*")
}
