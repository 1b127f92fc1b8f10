package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/syntactic/JSGFTools/jsgf"
	"github.com/syntactic/JSGFTools/parser"
)

func info(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: jsgfgen info <grammar>

Print a summary of a grammar: rule counts, public rules, recursion
cycles, and validation status. Unlike expand and sample, info still
reports on grammars that fail validation.
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

	fmt.Printf("Grammar: %s\n", grammarPath)
	fmt.Printf("Rules:   %d\n", g.Len())

	public := g.PublicRules()
	fmt.Printf("Public:  %d\n", len(public))
	for _, r := range public {
		fmt.Printf("  <%s>\n", r.Name)
	}

	cycles := g.DetectCycles()
	if len(cycles) == 0 {
		fmt.Println("Recursion: none")
	} else {
		fmt.Printf("Recursion: %d cycle(s)\n", len(cycles))
		for _, cycle := range cycles {
			fmt.Printf("  <%s>\n", strings.Join(cycle, "> -> <"))
		}
	}

	if err := g.Validate(); err != nil {
		fmt.Println("Validation: FAILED")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Printf("  %s\n", line)
		}
	} else {
		fmt.Println("Validation: ok")
	}
	return nil
}

// loadGrammarUnvalidated parses a grammar file without the semantic
// validation pass, for inspection commands.
func loadGrammarUnvalidated(path string) (*jsgf.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := parser.ParseUnvalidated(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}
