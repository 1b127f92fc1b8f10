package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/syntactic/JSGFTools/jsgf"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: jsgfgen validate <grammar>

Check that a grammar parses and that every nonterminal reference names a
defined rule. All problems are reported in one pass; the exit status is
nonzero if any are found.
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

	g, err := loadGrammarUnvalidated(grammarPath)
	if err != nil {
		return err
	}

	if err := g.Validate(); err != nil {
		var verr *jsgf.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "%s: %d problem(s)\n", grammarPath, len(verr.Problems))
			for _, p := range verr.Problems {
				fmt.Fprintf(os.Stderr, "  %s\n", p)
			}
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("%s: ok (%d rules, %d public)\n", grammarPath, g.Len(), len(g.PublicRules()))
	return nil
}
