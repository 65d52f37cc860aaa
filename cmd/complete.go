package cmd

import (
	"context"
	"flag"
	"slices"

	"github.com/etnz/lotledger/config"
	"github.com/etnz/lotledger/csvimport"
	"github.com/etnz/lotledger/docs"
	"github.com/etnz/lotledger/query"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictAssets suggests the asset names found in the history.
var predictAssets = complete.PredictFunc(func(prefix string) []string {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil
	}
	txs, err := loadTransactions(context.Background(), cfg)
	if err != nil {
		return nil
	}
	var names []string
	for _, tx := range txs {
		if !slices.Contains(names, tx.Asset) {
			names = append(names, tx.Asset)
		}
	}
	slices.Sort(names)
	return names
})

// flag predictors by flag name, the others accept anything.
var flagPredictors = map[string]complete.Predictor{
	"a":        predictAssets,
	"f":        predict.Set(csvimport.Formats()),
	"d":        predict.Set(query.Names()),
	"snapshot": predict.Files("*.jsonl"),
}

// argPredictors by subcommand name, the others take no argument.
var argPredictors = map[string]complete.Predictor{
	"import": predict.Files("*.csv"),
	"funds":  predict.Files("*.csv"),
	"topic":  predictTopics,
}

var predictTopics = complete.PredictFunc(func(prefix string) []string {
	names, _ := docs.All()
	return names
})

// Completion returns the shell completion tree of the subcommands, with
// the global flags of fs.
func Completion(fs *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(fs),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagsOf(f), Args: predict.Nothing}
		if p, ok := argPredictors[c.Name()]; ok {
			sub.Args = p
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case isBool(f):
			flags[f.Name] = predict.Nothing
		case flagPredictors[f.Name] != nil:
			flags[f.Name] = flagPredictors[f.Name]
		case f.Name == "config":
			flags[f.Name] = predict.Files("*.yaml")
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
