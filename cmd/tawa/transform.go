package main

import (
	"os"

	"github.com/tawa-lang/tawa/confusion"
	"github.com/tawa-lang/tawa/config"
	"github.com/tawa-lang/tawa/search"

	tawa "github.com/tawa-lang/tawa"
)

// runTransform is the shared driver loop behind segment and tag:
// TTM_create_transform/TTM_add_transform/TTM_start_transform/
// TTM_perform_transform collapsed into config.Load + confusion.ParseRules
// + search.NewDriver + Seed/UpdatePaths/BestPath, per
// original_source/Tawa-0.7/apps/transform/tag.c lines ~100-220.
func runTransform(configPath, rulesPath string, input tawa.Sequence) ([]tawa.Symbol, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		tawa.Raise(tawa.BadArgument, "runTransform", "loading config: %v", err)
	}

	ruleText, err := os.ReadFile(rulesPath)
	if err != nil {
		tawa.Raise(tawa.BadArgument, "runTransform", "reading rules: %v", err)
	}
	trie, err := confusion.ParseRules(string(ruleText))
	if err != nil {
		return nil, err
	}

	models := cfg.BuildModels()
	algo, stackDepth, stackExtension := cfg.Algorithm.SearchAlgorithm()
	driver := search.NewDriver(trie, models, algo, stackDepth, stackExtension)
	driver.Seed(0)

	for pos := 0; pos < len(input); pos++ {
		driver.UpdatePaths(input, pos)
	}
	return driver.BestPath(), nil
}

func readSequence(path string) (tawa.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		tawa.Raise(tawa.BadArgument, "readSequence", "reading input: %v", err)
	}
	seq := make(tawa.Sequence, len(data))
	for i, b := range data {
		seq[i] = tawa.Symbol(b)
	}
	return seq, nil
}

func writeSequence(path string, seq []tawa.Symbol) error {
	out := make([]byte, 0, len(seq))
	for _, s := range seq {
		out = append(out, byte(s))
	}
	return os.WriteFile(path, out, 0o644)
}
