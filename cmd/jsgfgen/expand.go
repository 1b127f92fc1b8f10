package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/syntactic/JSGFTools/cache"
	"github.com/syntactic/JSGFTools/generate"
)

func expand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	rule := fs.String("rule", "", "Rule to expand (default: every public rule)")
	limit := fs.Int("limit", 0, "Maximum number of strings to produce (0 = all)")
	maxDepth := fs.Int("max-depth", generate.DefaultMaxDepth, "Per-rule recursion depth bound")
	outputFile := fs.String("output", "", "Write strings to file (default: stdout)")
	logFile := fs.String("log", "", "Write a run log (.jsonl or .csv)")
	dbPath := fs.String("db", "", "Record the run in a SQLite database")
	useCache := fs.Bool("cache", false, "Memoize per-rule expansions")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: jsgfgen expand <grammar> [options]

Enumerate every string derivable from a grammar rule. Alternative weights
are ignored: each branch contributes its full expansion set. The grammar
should be non-recursive; recursive grammars trip the depth bound instead
of enumerating forever.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Everything the public rules can produce
  jsgfgen expand ideas.gram

  # One rule, capped at 500 strings, persisted to a run database
  jsgfgen expand ideas.gram --rule greeting --limit 500 --db runs.db

  # Keep a JSONL record of the run
  jsgfgen expand ideas.gram --log run.jsonl
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("grammar file required")
	}
	grammarPath := fs.Arg(0)

	g, err := loadGrammar(grammarPath)
	if err != nil {
		return err
	}

	if g.IsRecursive() {
		logger.Warn().
			Str("grammar", grammarPath).
			Msg("grammar contains recursive rules; exhaustive expansion will hit the depth bound, consider 'sample' instead")
	}

	expander := generate.NewExpander(g, generate.Config{
		MaxDepth: *maxDepth,
		Limit:    *limit,
	})
	if *useCache {
		expander = expander.WithCache(cache.NewExpansionCache(0))
	}

	var results []string
	if *rule != "" {
		results, err = expander.Expand(*rule)
	} else {
		results, err = expander.ExpandAll()
	}
	if err != nil {
		return err
	}

	sink, err := newRunSink(grammarPath, *rule, "expand", *outputFile, *logFile, *dbPath, *limit)
	if err != nil {
		return err
	}
	for _, s := range results {
		if err := sink.emit(s); err != nil {
			sink.cleanup()
			return err
		}
	}
	return sink.close()
}
