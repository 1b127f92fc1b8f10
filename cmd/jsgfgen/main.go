package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger().Level(zerolog.InfoLevel)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "expand":
		if err := expand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sample":
		if err := sample(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "info":
		if err := info(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := historyCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("jsgfgen version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`jsgfgen - generate strings from JSGF grammars

Usage:
  jsgfgen <command> [options]

Commands:
  expand     Enumerate every string a grammar rule can produce
  sample     Draw random strings, honoring alternative weights
  info       Display rule counts, public rules, and cycles
  validate   Check a grammar for undefined references
  history    Show recent generation runs from a run database
  help       Show this help message
  version    Show version information

Examples:
  # All strings from the public rules of a grammar
  jsgfgen expand ideas.gram

  # 20 weighted random sentences, reproducibly seeded
  jsgfgen sample ideas.gram --count 20 --seed 42

  # Persist a run and inspect it later
  jsgfgen sample ideas.gram --count 100 --db runs.db
  jsgfgen history --db runs.db

For command-specific help, run:
  jsgfgen <command> --help`)
}
