package main

import (
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teatak/treedec/decoder"
	"github.com/teatak/treedec/grammar"
)

var rootCmd = &cobra.Command{
	Use:   "treedec",
	Short: "Syntax-guided statistical machine translation decoder",
	Long: "treedec decodes parsed source sentences (bracketed trees) into " +
		"target-language n-best lists using tree-transduction grammars.",
}

var (
	flagConfig   string
	flagGrammars []string
	flagWeights  string
	flagNBest    int
	flagDistinct bool
	flagAlign    bool
	flagTree     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to YAML decoder config (optional)")
	pf.StringSliceVar(&flagGrammars, "grammar", nil, "Path to a rule table file (repeatable)")
	pf.StringVar(&flagWeights, "weights", "", "Comma-separated feature weights (default uniform)")
	pf.IntVar(&flagNBest, "nbest", 0, "Number of derivations per sentence (overrides config)")
	pf.BoolVar(&flagDistinct, "distinct", false, "Keep only distinct translations in the n-best list")
	pf.BoolVar(&flagAlign, "alignment", false, "Include word alignments in the output")
	pf.BoolVar(&flagTree, "tree", false, "Include target parse trees in the output")
}

// loadSetup resolves the config and rule tables shared by all subcommands.
func loadSetup() (decoder.Config, []*grammar.Table, error) {
	cfg := decoder.DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = decoder.LoadConfig(flagConfig)
		if err != nil {
			return cfg, nil, err
		}
	}
	if flagNBest > 0 {
		cfg.NBestSize = flagNBest
	}
	if flagDistinct {
		cfg.DistinctNBest = true
	}
	if flagAlign {
		cfg.IncludeAlignment = true
	}
	if flagTree {
		cfg.IncludeTree = true
	}

	weights, err := parseWeights(flagWeights)
	if err != nil {
		return cfg, nil, err
	}
	var tables []*grammar.Table
	for _, path := range flagGrammars {
		table, err := grammar.Load(path, weights)
		if err != nil {
			return cfg, nil, err
		}
		tables = append(tables, table)
	}
	return cfg, tables, cfg.Validate()
}

func parseWeights(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	weights := make([]float64, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		weights[i] = w
	}
	return weights, nil
}
